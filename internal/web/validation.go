package web

import (
	"errors" // Error inspection
	"sync"   // One-time validator setup

	"github.com/gin-gonic/gin/binding"                                // Gin binding validator
	"github.com/go-playground/validator/v10"                         // Validation errors
	"github.com/go-playground/validator/v10/non-standard/validators" // notblank rule

	"royal_site/internal/domain" // Form messages
)

var registerOnce sync.Once

// registerValidators adds the rules the form tags use on top of gin's defaults
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("notblank", validators.NotBlank)
		}
	})
}

// fieldMessages explains a failed rule on one form field
var fieldMessages = map[string]string{
	"Email":    domain.ErrInvalidEmail.Error(),
	"Guests":   domain.ErrInvalidGuests.Error(),
	"Status":   domain.ErrInvalidStatus.Error(),
	"Price":    "Price must be greater than zero.",
	"Category": "Please choose a valid category.",
	"VegType":  "Please choose Veg or Non-Veg.",
}

// bindError turns a ShouldBind failure into the message shown above a form.
// Empty fields report missing, values that do not parse report invalid.
func bindError(err error, missing, invalid string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" || fe.Tag() == "notblank" {
			return missing
		}
	}
	if msg, ok := fieldMessages[verrs[0].Field()]; ok {
		return msg
	}
	return invalid
}
