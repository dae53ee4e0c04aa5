// Package quality holds the advisory scanners: security rules evaluated over
// string values, and the data-quality ratios.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/openkraft/jsonkraft/internal/domain/structure"
)

// SecurityRule inspects one string value. Rules are independent: each
// returns its own issues and never looks at other rules' output.
type SecurityRule interface {
	Name() string
	Check(path, key, value string) []domain.SecurityIssue
}

// SecurityScanner runs its rules over every string value of a document.
type SecurityScanner struct {
	rules []SecurityRule
}

// NewSecurityScanner returns the default rule set, plus the secrets rule
// when enabled.
func NewSecurityScanner(cfg domain.SecurityConfig) *SecurityScanner {
	rules := []SecurityRule{InsecureURLRule{}}
	if cfg.DetectSecrets {
		rules = append(rules, SecretsRule{})
	}
	return &SecurityScanner{rules: rules}
}

// NewSecurityScannerWithRules returns a scanner with exactly rules.
func NewSecurityScannerWithRules(rules ...SecurityRule) *SecurityScanner {
	return &SecurityScanner{rules: rules}
}

// Scan returns every issue found, in document order.
func (s *SecurityScanner) Scan(v any) []domain.SecurityIssue {
	issues := []domain.SecurityIssue{}
	structure.Walk(v, func(n structure.Node) {
		str, ok := n.Value.(string)
		if !ok {
			return
		}
		for _, r := range s.rules {
			issues = append(issues, r.Check(n.Path, n.Key, str)...)
		}
	}, nil)
	return issues
}

// InsecureURLRule flags plain http:// URLs.
type InsecureURLRule struct{}

func (InsecureURLRule) Name() string { return "insecure_url" }

func (InsecureURLRule) Check(path, _, value string) []domain.SecurityIssue {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), "http://") {
		return nil
	}
	return []domain.SecurityIssue{{
		Path:           path,
		Kind:           "insecure_url",
		Severity:       domain.SeverityHigh,
		Message:        fmt.Sprintf("insecure URL %s", truncate(value, 80)),
		Recommendation: "Use https:// so the resource is fetched over an encrypted connection",
	}}
}

var (
	privateKeyRe = regexp.MustCompile(`-----BEGIN (?:[A-Z]+ )*PRIVATE KEY-----`)
	awsKeyRe     = regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)
)

// SecretsRule flags credentials embedded in the document. The first match
// wins so one value yields at most one issue.
type SecretsRule struct{}

func (SecretsRule) Name() string { return "secrets" }

func (SecretsRule) Check(path, key, value string) []domain.SecurityIssue {
	issue := domain.SecurityIssue{Path: path}
	switch {
	case privateKeyRe.MatchString(value):
		issue.Kind = "private_key"
		issue.Severity = domain.SeverityCritical
		issue.Message = "private key material embedded in document"
		issue.Recommendation = "Remove the key and rotate it; load keys from a secret store"
	case awsKeyRe.MatchString(value):
		issue.Kind = "cloud_credential"
		issue.Severity = domain.SeverityHigh
		issue.Message = "AWS access key id embedded in document"
		issue.Recommendation = "Revoke the key and inject credentials through the environment"
	case credentialKey(key) && strings.TrimSpace(value) != "":
		issue.Kind = "credential"
		issue.Severity = domain.SeverityMedium
		issue.Message = fmt.Sprintf("key %q holds a literal credential", key)
		issue.Recommendation = "Reference credentials indirectly instead of storing them in JSON"
	default:
		return nil
	}
	return []domain.SecurityIssue{issue}
}

func credentialKey(key string) bool {
	if structure.HasKeyWord(key, "password", "passwd", "secret", "token", "apikey") {
		return true
	}
	lower := strings.ToLower(key)
	return strings.Contains(lower, "api_key") || strings.Contains(lower, "apikey")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
