// ==============================================================================
// DRAFT VALIDATION - internal/handler/validate.go
// ==============================================================================
package handler

import (
	"verid/internal/domain"
	"verid/internal/rules"
	"verid/pkg/validator"
)

// validateDraft combines struct-level format validation with the
// kind-selection rule table. Field errors from the rule table win.
func validateDraft(v *validator.Validator, draft *domain.Draft) map[string]string {
	errs := rules.Validate(draft)
	for field, msg := range v.ValidateStructured(draft) {
		if _, seen := errs[field]; !seen {
			errs[field] = msg
		}
	}
	return errs
}
