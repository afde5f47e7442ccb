package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ncobase/accountdesk/ecode"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	registerTags(validate)
}

// errorMessages is a nested map of languages to validation tags to custom error messages.
var errorMessages = map[string]map[string]string{
	"en": {
		"required":       "The field '%s' is required.",
		"email":          "The field '%s' must be a valid email address.",
		"min":            "The field '%s' must be at least %s characters long.",
		"max":            "The field '%s' must be no longer than %s characters.",
		"len":            "The field '%s' must be exactly %s characters long.",
		"numeric":        "The field '%s' must contain digits only.",
		"eqfield":        "The field '%s' must match %s.",
		"nefield":        "The field '%s' must differ from %s.",
		"personname":     "The field '%s' may contain letters and spaces only.",
		"phone":          "The field '%s' must be a valid phone number.",
		"password":       "The field '%s' must contain a lowercase letter, an uppercase letter and a digit.",
		"strongpassword": "The field '%s' must contain a lowercase letter, an uppercase letter, a digit and one of @$!%%*?&.",
		"accepted":       "The field '%s' must be accepted.",
	},
	"zh": {
		"required":       "字段 '%s' 为必填项。",
		"email":          "字段 '%s' 必须是有效的电子邮箱地址。",
		"min":            "字段 '%s' 的长度不能少于 %s 个字符。",
		"max":            "字段 '%s' 的长度不能超过 %s 个字符。",
		"len":            "字段 '%s' 的长度必须为 %s 个字符。",
		"numeric":        "字段 '%s' 只能包含数字。",
		"eqfield":        "字段 '%s' 必须与 %s 一致。",
		"nefield":        "字段 '%s' 不能与 %s 相同。",
		"personname":     "字段 '%s' 只能包含字母和空格。",
		"phone":          "字段 '%s' 必须是有效的电话号码。",
		"password":       "字段 '%s' 必须包含小写字母、大写字母和数字。",
		"strongpassword": "字段 '%s' 必须包含小写字母、大写字母、数字和 @$!%%*?& 之一。",
		"accepted":       "字段 '%s' 必须勾选。",
	},
}

// parseMessage constructs a friendly error message based on the validation tag and custom messages.
func parseMessage(jsonTag string, e validator.FieldError, lang ...string) string {
	msgLang := "en"
	if len(lang) > 0 && lang[0] != "" {
		msgLang = lang[0]
	}
	if msgs, exists := errorMessages[msgLang]; exists {
		if msg, exists := msgs[e.Tag()]; exists {
			param := e.Param()
			if e.Tag() == "eqfield" || e.Tag() == "nefield" {
				param = lowerFirst(param)
			}
			switch strings.Count(msg, "%s") {
			case 1:
				return fmt.Sprintf(msg, jsonTag)
			case 2:
				return fmt.Sprintf(msg, jsonTag, param)
			}
		}
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", jsonTag, e.Tag())
}

// ValidateStruct validates a struct and returns a map of JSON field names to friendly error messages.
func ValidateStruct(s any, lang ...string) map[string]string {
	validationErrors := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return validationErrors
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		validationErrors["_"] = err.Error()
		return validationErrors
	}

	structType := reflect.TypeOf(s)
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	for _, e := range validationErrs {
		jsonTag := e.StructField()
		if field, ok := structType.FieldByName(e.StructField()); ok {
			if tag := field.Tag.Get("json"); tag != "" {
				jsonTag = strings.Split(tag, ",")[0]
			}
		}
		if _, seen := validationErrors[jsonTag]; !seen {
			validationErrors[jsonTag] = parseMessage(jsonTag, e, lang...)
		}
	}
	return validationErrors
}

// Validate validates s and returns an *ecode.ValidationError, or nil when s is valid.
func Validate(s any, lang ...string) error {
	return ecode.NewValidationError(ValidateStruct(s, lang...))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
