package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field rules carried over from the product: signup and booking forms
// gate submission on these exact patterns.
var (
	emailRe        = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z]{2,})+$`)
	nameRe         = regexp.MustCompile(`^[a-zA-Z]{1,50}$`)
	phoneRe        = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	bookingPhoneRe = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// passwordAllowed is the full character set a password may use. The
// complexity classes below must each be present.
const (
	passwordSpecial = "@$!%*?&"
	passwordMinLen  = 8
)

func Email(s string) bool { return emailRe.MatchString(s) }

func Name(s string) bool { return nameRe.MatchString(s) }

// Phone is the loose E.164 check used on signup.
func Phone(s string) bool { return phoneRe.MatchString(s) }

// BookingPhone is the slightly different pattern the booking form uses:
// 10-15 digits with an optional leading plus.
func BookingPhone(s string) bool { return bookingPhoneRe.MatchString(s) }

// Password enforces length >= 8 and at least one lowercase, uppercase,
// digit and special character, drawn only from the allowed set.
func Password(s string) bool {
	if len(s) < passwordMinLen {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecial, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// AllowedImageTypes for listing attachments.
var AllowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

func ImageType(contentType string) bool {
	_, ok := AllowedImageTypes[contentType]
	return ok
}

// Attachment checks one more file against the current count and type
// restrictions. maxFiles counts the file being attached.
func Attachment(contentType string, current, maxFiles int) error {
	if current >= maxFiles {
		return fmt.Errorf("maximum %d files allowed", maxFiles)
	}
	if !ImageType(contentType) {
		return fmt.Errorf("only JPEG or PNG files allowed")
	}
	return nil
}

// New returns a validator with the product rules registered, for
// whole-draft checks before submission.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nest_email", func(fl validator.FieldLevel) bool {
		return Email(fl.Field().String())
	})
	_ = v.RegisterValidation("nest_password", func(fl validator.FieldLevel) bool {
		return Password(fl.Field().String())
	})
	_ = v.RegisterValidation("letters_name", func(fl validator.FieldLevel) bool {
		return Name(fl.Field().String())
	})
	_ = v.RegisterValidation("e164_loose", func(fl validator.FieldLevel) bool {
		return Phone(fl.Field().String())
	})
	_ = v.RegisterValidation("booking_phone", func(fl validator.FieldLevel) bool {
		return BookingPhone(fl.Field().String())
	})
	return v
}
