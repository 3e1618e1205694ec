// ==============================================================================
// REQUEST BUILDER - internal/builder/builder.go
// ==============================================================================
package builder

import (
	"verid/internal/domain"
	"verid/internal/rules"
)

// PrimaryPayload assembles the full identifier map for the generate-profile
// endpoint. Every supplied field is sent, regardless of selected kinds.
func PrimaryPayload(d *domain.Draft) map[string]interface{} {
	payload := map[string]interface{}{
		"full_name": d.FullName,
	}
	optional := []string{
		"dob", "mobile", "aadhaar", "pan", "dl_number", "rc_number",
		"father_name", "epic_number", "passport_file_number",
		"bank_account", "ifsc", "upi_id", "gstin",
	}
	for _, field := range optional {
		if v := d.FieldValue(field); v != "" {
			payload[field] = v
		}
	}

	kinds := make([]string, 0, len(d.Kinds))
	for _, k := range d.Kinds {
		kinds = append(kinds, string(k))
	}
	payload["verifications"] = kinds

	return payload
}

// KindPayload assembles the trimmed payload for a kind-specific endpoint.
// Only the kind's own fields are included so unrelated identifiers are never
// leaked to endpoints that have no use for them.
func KindPayload(k domain.Kind, d *domain.Draft) map[string]interface{} {
	payload := make(map[string]interface{})
	for _, field := range rules.RequiredFields(k) {
		if v := d.FieldValue(field); v != "" {
			payload[field] = v
		}
	}
	return payload
}

// DLPayload is the driving-license lookup request. The date of birth comes
// from the primary response when available, else from the form input.
func DLPayload(d *domain.Draft, dob string) map[string]interface{} {
	return map[string]interface{}{
		"dl_number": d.DLNumber,
		"dob":       dob,
	}
}

// RCPayload is the vehicle-registration lookup request, routed through the
// lite verification endpoint with an explicit service selector.
func RCPayload(d *domain.Draft) map[string]interface{} {
	return map[string]interface{}{
		"service":   "vehicle-rc",
		"rc_number": d.RCNumber,
	}
}
