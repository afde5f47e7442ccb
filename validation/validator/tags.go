package validator

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/ncobase/accountdesk/consts"
)

var (
	personNamePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phonePattern      = regexp.MustCompile(`^[0-9+\-\s()]+$`)
)

func registerTags(v *validator.Validate) {
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		c := classify(fl.Field().String())
		return c.lower && c.upper && c.digit
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		c := classify(fl.Field().String())
		return c.lower && c.upper && c.digit && c.special
	})
	_ = v.RegisterValidation("accepted", func(fl validator.FieldLevel) bool {
		return fl.Field().Bool()
	})
}

type charClasses struct {
	lower, upper, digit, special bool
}

func classify(s string) charClasses {
	var c charClasses
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsDigit(r):
			c.digit = true
		case strings.ContainsRune(consts.Special, r):
			c.special = true
		}
	}
	return c
}
