// ==============================================================================
// VALIDATOR PACKAGE - pkg/validator/validator.go
// ==============================================================================
package validator

import (
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Identity document formats accepted by the verification services.
var (
	reMobile   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	reAadhaar  = regexp.MustCompile(`^[0-9]{12}$`)
	rePAN      = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	reIFSC     = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	reUPI      = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}$`)
	reEPIC     = regexp.MustCompile(`^[A-Z]{3}[0-9]{7}$`)
	reDL       = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z-]{6,14}$`)
	reRC       = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{0,3}[0-9]{4}$`)
	rePassport = regexp.MustCompile(`^[A-Z]{2}[0-9]{13}$`)
	reGSTIN    = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]{3}$`)
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := &Validator{
		validate: validator.New(),
	}
	// Report errors under the JSON field name the frontend submitted.
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.registerCustomValidations()
	return v
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		// Format validation errors
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMessages []string
			for _, e := range validationErrors {
				errMessages = append(errMessages, fmt.Sprintf(
					"Field '%s' failed validation '%s'",
					e.Field(),
					e.Tag(),
				))
			}
			return fmt.Errorf("validation failed: %v", errMessages)
		}
		return err
	}
	return nil
}

// ValidateStructured returns a map of field -> error message for frontend usage
func (v *Validator) ValidateStructured(i interface{}) map[string]string {
	errs := make(map[string]string)
	if err := v.validate.Struct(i); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				msg := fmt.Sprintf("failed validation on '%s'", e.Tag())
				switch e.Tag() {
				case "required":
					msg = "This field is required"
				case "email":
					msg = "Invalid email address"
				case "min":
					msg = fmt.Sprintf("Must be at least %s characters", e.Param())
				case "max":
					msg = fmt.Sprintf("Must be at most %s characters", e.Param())
				case "indian_mobile":
					msg = "Enter a valid 10-digit mobile number"
				case "aadhaar":
					msg = "Aadhaar must be a 12-digit number"
				case "pan":
					msg = "Invalid PAN format (e.g. ABCDE1234F)"
				case "ifsc":
					msg = "Invalid IFSC code"
				case "upi":
					msg = "Invalid UPI ID"
				case "epic":
					msg = "Invalid EPIC number"
				case "dl_number":
					msg = "Invalid driving license number"
				case "rc_number":
					msg = "Invalid vehicle registration number"
				case "passport_file":
					msg = "Invalid passport file number"
				case "gstin":
					msg = "Invalid GSTIN"
				}
				errs[e.Field()] = msg
			}
		} else {
			errs["_global"] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *Validator) registerCustomValidations() {
	patterns := map[string]*regexp.Regexp{
		"indian_mobile": reMobile,
		"aadhaar":       reAadhaar,
		"pan":           rePAN,
		"ifsc":          reIFSC,
		"upi":           reUPI,
		"epic":          reEPIC,
		"dl_number":     reDL,
		"rc_number":     reRC,
		"passport_file": rePassport,
		"gstin":         reGSTIN,
	}

	for tag, re := range patterns {
		pattern := re
		_ = v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			value := strings.TrimSpace(fl.Field().String())
			if value == "" {
				// Emptiness is for the "required" tag to decide.
				return true
			}
			return pattern.MatchString(value)
		})
	}
}

// Sanitize cleans string input to prevent XSS attacks
func Sanitize(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}
