// ==============================================================================
// RESULT NORMALIZER - internal/normalize/normalize.go
// ==============================================================================
package normalize

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"verid/internal/domain"
)

// Lookup walks a dot path through nested JSON maps. It never panics on
// missing or oddly shaped intermediate values.
func Lookup(raw map[string]interface{}, path string) (interface{}, bool) {
	if raw == nil {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var current interface{} = raw
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// Resolve walks the alias chain for one field spec, then falls back to the
// form input. The second return is false when the field is genuinely absent.
func Resolve(raw map[string]interface{}, spec FieldSpec, d *domain.Draft) (string, bool) {
	for _, alias := range spec.Aliases {
		v, ok := Lookup(raw, alias)
		if !ok {
			continue
		}
		s := stringify(v, spec.Numeric)
		if s != "" {
			return s, true
		}
	}
	if spec.FormField != "" && d != nil {
		if v := d.FieldValue(spec.FormField); v != "" {
			return v, true
		}
	}
	return "", false
}

// Section maps one raw backend payload onto the canonical field set of a
// section. Unknown fields are ignored, missing fields are left absent. The
// returned data is nil when nothing at all resolved.
func Section(raw map[string]interface{}, s domain.Section, d *domain.Draft) *domain.SectionData {
	data := &domain.SectionData{
		Status: domain.StatusOK,
		Fields: make(map[string]string),
	}

	for _, spec := range SectionSpecs(s) {
		if v, ok := Resolve(raw, spec, d); ok {
			data.Fields[spec.Key] = v
		}
	}
	if ls, ok := SectionListSpec(s); ok {
		data.Rows = rows(raw, ls)
	}

	if len(data.Fields) == 0 && len(data.Rows) == 0 {
		return nil
	}
	return data
}

// rows extracts and flattens a list-shaped value. List entries may be maps
// (credit accounts) or bare strings (older vehicle-category payloads).
func rows(raw map[string]interface{}, ls ListSpec) []map[string]string {
	var items []interface{}
	for _, alias := range ls.Aliases {
		v, ok := Lookup(raw, alias)
		if !ok {
			continue
		}
		if list, ok := v.([]interface{}); ok && len(list) > 0 {
			items = list
			break
		}
	}
	if items == nil {
		return nil
	}

	out := make([]map[string]string, 0, len(items))
	for _, item := range items {
		switch entry := item.(type) {
		case map[string]interface{}:
			row := make(map[string]string)
			for _, col := range ls.Columns {
				for _, alias := range col.Aliases {
					if v, ok := Lookup(entry, alias); ok {
						if s := stringify(v, col.Numeric); s != "" {
							row[col.Key] = s
							break
						}
					}
				}
			}
			if len(row) > 0 {
				out = append(out, row)
			}
		default:
			if s := stringify(entry, false); s != "" {
				out = append(out, map[string]string{ls.Columns[0].Key: s})
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Flattened merges mini-tier per-kind results into the top level so the same
// alias tables serve all three response shapes. Existing top-level keys win.
func Flattened(raw map[string]interface{}) map[string]interface{} {
	results, ok := raw["results"].(map[string]interface{})
	if !ok {
		return raw
	}
	merged := make(map[string]interface{}, len(raw))
	for _, kindResult := range results {
		if m, ok := kindResult.(map[string]interface{}); ok {
			for k, v := range m {
				merged[k] = v
			}
		}
	}
	for k, v := range raw {
		merged[k] = v
	}
	return merged
}

// CourtCases decodes the court-case lookup response. Any shape surprise
// degrades to the explicit empty state.
func CourtCases(raw map[string]interface{}) *domain.CourtCaseData {
	if raw == nil {
		return domain.EmptyCourtCases()
	}
	data := domain.EmptyCourtCases()

	if list, ok := raw["cases"].([]interface{}); ok {
		for _, item := range list {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			row := make(map[string]string, len(entry))
			for k, v := range entry {
				if s := stringify(v, false); s != "" {
					row[k] = s
				}
			}
			if len(row) > 0 {
				data.Cases = append(data.Cases, row)
			}
		}
	}

	data.CasesFound = len(data.Cases)
	for _, alias := range []string{"casesFound", "cases_found"} {
		if v, ok := Lookup(raw, alias); ok {
			if n, ok := asInt(v); ok {
				data.CasesFound = n
				break
			}
		}
	}

	for _, alias := range []string{"advancedAnalysis.statistics", "advanced_analysis.statistics"} {
		if v, ok := Lookup(raw, alias); ok {
			if stats, ok := v.(map[string]interface{}); ok {
				data.Statistics = make(map[string]string, len(stats))
				for k, sv := range stats {
					if s := stringify(sv, true); s != "" {
						data.Statistics[k] = s
					}
				}
				break
			}
		}
	}

	return data
}

// stringify renders a scalar JSON value. Numeric fields (balances, challan
// amounts, scores) pass through unformatted; locale formatting and currency
// symbols are a presentation concern.
func stringify(v interface{}, numeric bool) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		// decimal avoids float artifacts like 1500.0000000001 in amounts.
		if numeric || value != float64(int64(value)) {
			return decimal.NewFromFloat(value).String()
		}
		return strconv.FormatInt(int64(value), 10)
	case bool:
		return strconv.FormatBool(value)
	case []interface{}:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			if s := stringify(item, numeric); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func asInt(v interface{}) (int, bool) {
	switch value := v.(type) {
	case float64:
		return int(value), true
	case string:
		if n, err := strconv.Atoi(value); err == nil {
			return n, true
		}
	}
	return 0, false
}
