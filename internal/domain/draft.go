// ==============================================================================
// VERIFICATION DRAFT - internal/domain/draft.go
// ==============================================================================
package domain

import "strings"

// Tier selects which primary verification endpoint serves the submission.
type Tier string

const (
	TierAdvanced Tier = "advanced"
	TierLite     Tier = "lite"
	TierMini     Tier = "mini"
)

func ParseTier(s string) (Tier, bool) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierAdvanced:
		return TierAdvanced, true
	case TierLite:
		return TierLite, true
	case TierMini:
		return TierMini, true
	}
	return "", false
}

// Kind is a named category of check the user opts into per submission.
type Kind string

const (
	KindMobile   Kind = "mobile"
	KindAadhaar  Kind = "aadhaar"
	KindPAN      Kind = "pan"
	KindDL       Kind = "dl"
	KindRC       Kind = "rc"
	KindEPIC     Kind = "epic"
	KindPassport Kind = "passport"
	KindBank     Kind = "bank"
	KindUPI      Kind = "upi"
	KindBusiness Kind = "business"
)

// Draft holds the identifiers entered by the user plus the selected
// verification kinds. It is created at submit time and discarded after use.
type Draft struct {
	FullName           string `json:"full_name" validate:"required,min=2,max=120"`
	DOB                string `json:"dob,omitempty"`
	Mobile             string `json:"mobile,omitempty" validate:"omitempty,indian_mobile"`
	Aadhaar            string `json:"aadhaar,omitempty" validate:"omitempty,aadhaar"`
	PAN                string `json:"pan,omitempty" validate:"omitempty,pan"`
	DLNumber           string `json:"dl_number,omitempty" validate:"omitempty,dl_number"`
	RCNumber           string `json:"rc_number,omitempty" validate:"omitempty,rc_number"`
	FatherName         string `json:"father_name,omitempty"`
	EPICNumber         string `json:"epic_number,omitempty" validate:"omitempty,epic"`
	PassportFileNumber string `json:"passport_file_number,omitempty" validate:"omitempty,passport_file"`
	BankAccount        string `json:"bank_account,omitempty"`
	IFSC               string `json:"ifsc,omitempty" validate:"omitempty,ifsc"`
	UPIID              string `json:"upi_id,omitempty" validate:"omitempty,upi"`
	GSTIN              string `json:"gstin,omitempty" validate:"omitempty,gstin"`

	Kinds []Kind `json:"kinds"`
}

// Selected reports whether the given kind was opted into.
func (d *Draft) Selected(k Kind) bool {
	for _, kind := range d.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// FieldValue resolves a form field by its canonical snake_case name. Used by
// the normalizer's form-input fallback and by the rule engine.
func (d *Draft) FieldValue(name string) string {
	switch name {
	case "full_name":
		return d.FullName
	case "dob":
		return d.DOB
	case "mobile":
		return d.Mobile
	case "aadhaar":
		return d.Aadhaar
	case "pan":
		return d.PAN
	case "dl_number":
		return d.DLNumber
	case "rc_number":
		return d.RCNumber
	case "father_name":
		return d.FatherName
	case "epic_number":
		return d.EPICNumber
	case "passport_file_number":
		return d.PassportFileNumber
	case "bank_account":
		return d.BankAccount
	case "ifsc":
		return d.IFSC
	case "upi_id":
		return d.UPIID
	case "gstin":
		return d.GSTIN
	}
	return ""
}

// MaskIdentifier hides all but the last four characters. Used when recording
// audit history; raw identifiers never reach the database.
func MaskIdentifier(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("X", len(v))
	}
	return strings.Repeat("X", len(v)-4) + v[len(v)-4:]
}
