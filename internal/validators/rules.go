package validators

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/clinic-admin/internal/domain/membership"
)

// Register adds the custom rules to gin's binding validator.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", validHHMM); err != nil {
		return err
	}
	return v.RegisterValidation("renewal", validRenewal)
}

// validHHMM accepts "15:04" clock values. Empty strings pass; pair with
// required when the field is mandatory.
func validHHMM(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func validRenewal(fl validator.FieldLevel) bool {
	return membership.ValidRenewal(fl.Field().String())
}
