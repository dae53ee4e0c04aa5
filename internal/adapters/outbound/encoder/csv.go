package encoder

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/openkraft/jsonkraft/internal/domain/convert"
)

// CSV writes one row per object. The header is the union of keys in
// first-seen order; nested values are written as compact JSON.
type CSV struct{}

func (CSV) Format() domain.Format { return domain.FormatCSV }

func (CSV) Encode(v any) (string, error) {
	if err := convert.CheckTabular(v, domain.FormatCSV); err != nil {
		return "", err
	}
	rows := v.([]any)

	var header []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, k := range domain.Keys(row.(*domain.Object)) {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		obj := row.(*domain.Object)
		record := make([]string, len(header))
		for i, k := range header {
			if val, ok := obj.Get(k); ok {
				record[i] = csvCell(val)
			}
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func csvCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return domain.Canonical(t)
	}
}
