package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/studorg/membership-service/internal/domain/common/errorz"
)

func ProfileName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= 2 && utf8.RuneCountInString(name) <= 80
}

func ProfileEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// Profile validates the editable profile fields.
func Profile(name, email string) error {
	if !ProfileName(name) {
		return fmt.Errorf("%w: full_name", errorz.ValidationFailed)
	}
	if !ProfileEmail(email) {
		return fmt.Errorf("%w: email", errorz.ValidationFailed)
	}
	return nil
}
