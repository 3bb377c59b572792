package seats

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Seat ids are a row letter followed by a 1 or 2 digit column, e.g. "A1",
// "K14".
var seatIDPattern = regexp.MustCompile(`^[A-Z][1-9][0-9]?$`)

// RegisterValidators installs the seatid binding tag. Call once at startup
// before the router handles requests.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("seatid", func(fl validator.FieldLevel) bool {
			return seatIDPattern.MatchString(fl.Field().String())
		})
	}
}
