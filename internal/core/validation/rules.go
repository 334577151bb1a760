// Package validation is the single source of truth for account field rules:
// full name, mobile number, and password policy. Other layers must call into
// it rather than re-implement the patterns.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	fullNamePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)
	mobilePattern   = regexp.MustCompile(`^[0-9]{10}$`)
)

// passwordSymbols is the fixed set of special characters accepted in
// passwords. Characters outside letters, digits, and this set reject the
// whole password.
const passwordSymbols = "@$!%*?&"

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	// Report errors under the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "full_name", func(fl validator.FieldLevel) bool {
		return fullNamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "mobile_number", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "strong_password", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// isStrongPassword requires at least one lowercase letter, one uppercase
// letter, one digit, and one symbol from passwordSymbols, with no characters
// outside those classes. Length bounds are enforced separately.
func isStrongPassword(s string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

type newAccountInput struct {
	FullName     string `json:"fullName"     validate:"required,min=2,max=255,full_name"`
	MobileNumber string `json:"mobileNumber" validate:"required,mobile_number"`
	Password     string `json:"password"     validate:"required,min=8,max=255,strong_password"`
}

type profileUpdateInput struct {
	FullName     *string `json:"fullName"     validate:"omitempty,min=2,max=255,full_name"`
	MobileNumber *string `json:"mobileNumber" validate:"omitempty,mobile_number"`
}

type passwordChangeInput struct {
	NewPassword string `json:"newPassword" validate:"required,min=8,max=255,strong_password"`
}

// NewAccount validates signup fields. The returned map holds one message per
// failing field (first failing rule wins) and is empty when everything passes.
func NewAccount(fullName, mobileNumber, password string) map[string]string {
	return check(newAccountInput{
		FullName:     fullName,
		MobileNumber: mobileNumber,
		Password:     password,
	})
}

// ProfileUpdate validates optional profile fields. Nil or empty fields are
// skipped; present fields are fully validated.
func ProfileUpdate(fullName, mobileNumber *string) map[string]string {
	return check(profileUpdateInput{
		FullName:     fullName,
		MobileNumber: mobileNumber,
	})
}

// PasswordChange validates a replacement password under the same policy as
// signup, reported under the newPassword field.
func PasswordChange(newPassword string) map[string]string {
	return check(passwordChangeInput{NewPassword: newPassword})
}

func check(input any) map[string]string {
	err := validate.Struct(input)
	if err == nil {
		return map[string]string{}
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = message(fe)
		}
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "fullName":
		switch fe.Tag() {
		case "required":
			return "Full name is required"
		case "min", "max":
			return "Full name must be between 2 and 255 characters"
		default:
			return "Full name can only contain letters and spaces"
		}
	case "mobileNumber":
		if fe.Tag() == "required" {
			return "Mobile number is required"
		}
		return "Mobile number must be 10 digits"
	case "newPassword":
		if fe.Tag() == "required" {
			return "New password is required"
		}
		return passwordPolicyMessage(fe.Tag())
	default: // password
		if fe.Tag() == "required" {
			return "Password is required"
		}
		return passwordPolicyMessage(fe.Tag())
	}
}

func passwordPolicyMessage(tag string) string {
	if tag == "min" || tag == "max" {
		return "Password must be between 8 and 255 characters"
	}
	return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
}
