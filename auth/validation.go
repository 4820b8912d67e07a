package auth

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-survey-gateway/identity"
	"github.com/jrsteele09/go-survey-gateway/internal/errors"
)

// Validator checks gateway inputs before any upstream call is made
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ValidateCredentials requires both username and password. Field values never appear in the error.
func (v *Validator) ValidateCredentials(creds identity.Credentials) error {
	if err := v.validate.Struct(creds); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			missing := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				missing = append(missing, strings.ToLower(fe.Field()))
			}
			return errors.Wrapf(errors.ErrInvalidRequest, "[ValidateCredentials] missing %s", strings.Join(missing, ", "))
		}
		return errors.Wrapf(errors.ErrInvalidRequest, "[ValidateCredentials]")
	}
	return nil
}

// ValidateCallback checks the provider is known and a code was supplied
func (v *Validator) ValidateCallback(providers *ProviderRegistry, provider, code string) error {
	if provider == "" {
		return errors.ErrMissingProvider
	}
	if !providers.Has(provider) {
		return errors.Wrapf(errors.ErrUnknownProvider, "[ValidateCallback] %q", provider)
	}
	if code == "" {
		return errors.ErrMissingCode
	}
	return nil
}
