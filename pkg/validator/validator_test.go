package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactForm struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
	Phone string `validate:"omitempty,phone"`
}

func TestValidateStructOK(t *testing.T) {
	errs := ValidateStruct(&contactForm{Name: "A. Dupont", Email: "a@sgg.gov", Phone: "+269 123-45-67"})
	assert.Empty(t, errs)
}

func TestValidateStructRequired(t *testing.T) {
	errs := ValidateStruct(&contactForm{})
	require.Len(t, errs, 1)
	assert.Equal(t, "contactForm.Name", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
}

func TestValidatePhone(t *testing.T) {
	good := []string{"+269 773 12 34", "(02) 123-4567", "0123456789"}
	for _, phone := range good {
		errs := ValidateStruct(&contactForm{Name: "X", Phone: phone})
		assert.Empty(t, errs, "phone %q", phone)
	}

	bad := []string{"call me", "123x456", "a+b"}
	for _, phone := range bad {
		errs := ValidateStruct(&contactForm{Name: "X", Phone: phone})
		assert.NotEmpty(t, errs, "phone %q", phone)
	}
}
