package global

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InitValidator builds Validate and registers the custom rules. Field names
// in errors follow the json tags.
func InitValidator() {
	Validate = validator.New(validator.WithRequiredStructEnabled())
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("objectid", validateObjectID)
	_ = Validate.RegisterValidation("slug", validateSlug)
}

// GetValidator returns Validate, initializing it on first use.
func GetValidator() *validator.Validate {
	if Validate == nil {
		InitValidator()
	}
	return Validate
}

func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	for _, pattern := range []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"onmouseover=",
		"eval(",
		"document.cookie",
		"document.write",
		"<iframe",
		"<object",
		"<embed",
	} {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateObjectID accepts a 24 character hex id, or an empty string when
// combined with omitempty.
func validateObjectID(fl validator.FieldLevel) bool {
	id, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil && !id.IsZero()
}

// validateSlug accepts lowercase words of letters and digits joined by '-'.
func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" || strings.HasPrefix(value, "-") || strings.HasSuffix(value, "-") || strings.Contains(value, "--") {
		return false
	}
	for _, r := range value {
		if !(r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127) {
			return false
		}
	}
	return true
}
