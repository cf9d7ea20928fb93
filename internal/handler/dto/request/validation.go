package request

import (
	"sync"

	"omiam-waitlist/internal/domain/waitlist"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the waitlist-specific binding tags to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
			return waitlist.IsValidTimeSlot(fl.Field().String())
		})
		_ = v.RegisterValidation("seating", func(fl validator.FieldLevel) bool {
			return waitlist.SeatingPreference(fl.Field().String()).IsValid()
		})
	})
}
