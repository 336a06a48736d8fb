package handler

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phoneRe = regexp.MustCompile(`^[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("person_name", validatePersonName)
	validate.RegisterValidation("phone", validatePhone)
}

func validatePersonName(fl validator.FieldLevel) bool {
	return nameRe.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(fl.Field().String())
}

// firstValidationMessage reduces a validator error to one human message for
// the error body.
func firstValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return "Field '" + fe.Field() + "' is required"
		case "person_name":
			return "Name must contain only letters and spaces"
		case "email":
			return "Invalid email format"
		case "phone":
			return "Invalid phone number format"
		case "min", "max":
			return "Field '" + fe.Field() + "' has invalid length"
		}
		return "Field '" + fe.Field() + "' is invalid"
	}
	return "Invalid request body"
}
