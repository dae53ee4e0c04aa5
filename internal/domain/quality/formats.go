package quality

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// formatKind is the syntactic check a key or value calls for.
type formatKind string

const (
	formatNone  formatKind = ""
	formatEmail formatKind = "email"
	formatURL   formatKind = "URL"
	formatDate  formatKind = "date"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"15:04:05",
	"15:04",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC850,
	time.ANSIC,
}

// formatForKey picks a check from the key name (case-insensitive substring).
func formatForKey(key string) formatKind {
	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "email"):
		return formatEmail
	case strings.Contains(k, "url"), strings.Contains(k, "link"), strings.Contains(k, "website"):
		return formatURL
	case strings.Contains(k, "date"), strings.Contains(k, "time"):
		return formatDate
	}
	return formatNone
}

// formatForValue picks a check for values that look like an email or URL
// under a key that says nothing about them.
func formatForValue(value string) formatKind {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.HasPrefix(v, "http://"), strings.HasPrefix(v, "https://"), strings.HasPrefix(v, "www."):
		return formatURL
	case strings.Count(v, "@") == 1 && !strings.ContainsAny(v, " \t\n") && !strings.HasPrefix(v, "@"):
		return formatEmail
	}
	return formatNone
}

func validFormat(kind formatKind, value string) bool {
	v := strings.TrimSpace(value)
	switch kind {
	case formatEmail:
		return emailRe.MatchString(v)
	case formatURL:
		return validURL(v)
	case formatDate:
		return validDate(v)
	}
	return true
}

func validURL(v string) bool {
	if strings.HasPrefix(v, "/") {
		return true
	}
	if strings.HasPrefix(strings.ToLower(v), "www.") {
		v = "http://" + v
	}
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" {
		return false
	}
	switch u.Scheme {
	case "mailto", "tel", "urn", "data":
		return u.Opaque != ""
	}
	return u.Host != ""
}

func validDate(v string) bool {
	if v == "" {
		return false
	}
	if isDigits(v) {
		return true
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
