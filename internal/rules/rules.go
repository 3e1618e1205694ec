// ==============================================================================
// FIELD RULES - internal/rules/rules.go
// ==============================================================================
// Data-driven required-field and format rules per verification kind. The rule
// table gates submission: no network call is issued while it reports errors.
// ==============================================================================

package rules

import (
	"regexp"

	"verid/internal/domain"
)

// FieldRule binds one form field to an optional format pattern.
type FieldRule struct {
	Field    string
	Pattern  *regexp.Regexp
	Required string // message when the field is empty
	Invalid  string // message when the pattern does not match
}

// KindRule declares what a verification kind needs before it may run.
type KindRule struct {
	Kind   domain.Kind
	Fields []FieldRule
}

var (
	reMobile   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	reAadhaar  = regexp.MustCompile(`^[0-9]{12}$`)
	rePAN      = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	reDL       = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z-]{6,14}$`)
	reRC       = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{0,3}[0-9]{4}$`)
	reEPIC     = regexp.MustCompile(`^[A-Z]{3}[0-9]{7}$`)
	rePassport = regexp.MustCompile(`^[A-Z]{2}[0-9]{13}$`)
	reAccount  = regexp.MustCompile(`^[0-9]{9,18}$`)
	reIFSC     = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	reUPI      = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}$`)
	reGSTIN    = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]{3}$`)
)

// Base rules apply to every submission regardless of selected kinds.
var baseRules = []FieldRule{
	{Field: "full_name", Required: "Full name is required"},
}

// Table holds the per-kind rules in declaration order. When a field is
// required by two selected kinds it is validated once and the first failing
// rule's message wins.
var Table = []KindRule{
	{Kind: domain.KindMobile, Fields: []FieldRule{
		{Field: "mobile", Pattern: reMobile, Required: "Mobile number is required", Invalid: "Enter a valid 10-digit mobile number"},
	}},
	{Kind: domain.KindAadhaar, Fields: []FieldRule{
		{Field: "aadhaar", Pattern: reAadhaar, Required: "Aadhaar number is required", Invalid: "Aadhaar must be a 12-digit number"},
	}},
	{Kind: domain.KindPAN, Fields: []FieldRule{
		{Field: "pan", Pattern: rePAN, Required: "PAN is required", Invalid: "Invalid PAN format (e.g. ABCDE1234F)"},
	}},
	{Kind: domain.KindDL, Fields: []FieldRule{
		{Field: "dl_number", Pattern: reDL, Required: "Driving license number is required", Invalid: "Invalid driving license number"},
	}},
	{Kind: domain.KindRC, Fields: []FieldRule{
		{Field: "rc_number", Pattern: reRC, Required: "Vehicle registration number is required", Invalid: "Invalid vehicle registration number"},
	}},
	{Kind: domain.KindEPIC, Fields: []FieldRule{
		{Field: "epic_number", Pattern: reEPIC, Required: "EPIC number is required", Invalid: "Invalid EPIC number"},
	}},
	{Kind: domain.KindPassport, Fields: []FieldRule{
		{Field: "passport_file_number", Pattern: rePassport, Required: "Passport file number is required", Invalid: "Invalid passport file number"},
	}},
	{Kind: domain.KindBank, Fields: []FieldRule{
		{Field: "bank_account", Pattern: reAccount, Required: "Bank account number is required", Invalid: "Invalid bank account number"},
		{Field: "ifsc", Pattern: reIFSC, Required: "IFSC code is required", Invalid: "Invalid IFSC code"},
	}},
	{Kind: domain.KindUPI, Fields: []FieldRule{
		{Field: "upi_id", Pattern: reUPI, Required: "UPI ID is required", Invalid: "Invalid UPI ID"},
	}},
	{Kind: domain.KindBusiness, Fields: []FieldRule{
		{Field: "gstin", Pattern: reGSTIN, Required: "GSTIN is required", Invalid: "Invalid GSTIN"},
	}},
}

// Validate checks the draft against the base rules and the rules of every
// selected kind. It returns field -> message for each violation; an empty
// result means the draft is submittable. Pure, no side effects.
func Validate(d *domain.Draft) map[string]string {
	errs := make(map[string]string)

	apply := func(rule FieldRule) {
		if _, seen := errs[rule.Field]; seen {
			return
		}
		value := d.FieldValue(rule.Field)
		if value == "" {
			errs[rule.Field] = rule.Required
			return
		}
		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			errs[rule.Field] = rule.Invalid
		}
	}

	for _, rule := range baseRules {
		apply(rule)
	}
	for _, kr := range Table {
		if !d.Selected(kr.Kind) {
			continue
		}
		for _, rule := range kr.Fields {
			apply(rule)
		}
	}

	return errs
}

// RequiredFields lists the form fields a kind's payload is built from.
func RequiredFields(k domain.Kind) []string {
	for _, kr := range Table {
		if kr.Kind == k {
			fields := make([]string, 0, len(kr.Fields))
			for _, rule := range kr.Fields {
				fields = append(fields, rule.Field)
			}
			return fields
		}
	}
	return nil
}
