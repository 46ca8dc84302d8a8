package form

import (
	"fmt"

	"github.com/accommodation-form-api/internal/domain"
	"github.com/accommodation-form-api/internal/pkg/validate"
)

// validateForm runs the tag validation and the cross-field rules that the
// tags cannot express. Every violation is collected so the caller sees the
// whole list at once.
func validateForm(sub *domain.FormSubmission) error {
	fields, err := validate.FieldPaths(sub)
	if err != nil {
		return err
	}

	current := 0
	for _, entry := range sub.AddressHistory {
		if entry.Current() {
			current++
		}
	}
	if current != 1 {
		fields = append(fields, fmt.Sprintf(
			"address_history: exactly one entry must have an empty to_date, got %d", current))
	}

	if !sub.OccupationAgreement.AllAccepted() {
		fields = append(fields, "occupation_agreement: every term must be accepted")
	}
	if !sub.ConsentAndDeclaration.ConsentGiven {
		fields = append(fields, "consent_and_declaration.consent_given: must be true")
	}
	if !sub.ConsentAndDeclaration.Declaration.AllConfirmed() {
		fields = append(fields, "consent_and_declaration.declaration: every statement must be confirmed")
	}

	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}
