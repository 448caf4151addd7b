package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerPattern matches exchange ticker symbols: 1-10 characters, uppercase
// letters and digits with optional '.' or '-' separators (BRK.B, BF-B).
var tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// IsTicker reports whether s is a well-formed ticker symbol
func IsTicker(s string) bool {
	return tickerPattern.MatchString(s)
}

// RegisterCustomValidations registers domain validations on gin's binding
// engine so request structs can use them in binding tags
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	return v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
		return IsTicker(fl.Field().String())
	})
}
