package models

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/moviesir/moviesir/internal/shared"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit  = regexp.MustCompile(`[0-9]`)
)

// ValidateEmail checks the email format used by the signup and login forms.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: 이메일을 입력해주세요", shared.ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: 올바른 이메일 형식이 아닙니다", shared.ErrInvalidInput)
	}
	return nil
}

// ValidatePassword enforces the signup password policy: at least eight
// characters containing both a letter and a digit.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: 비밀번호를 입력해주세요", shared.ErrInvalidInput)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: 비밀번호는 최소 8자 이상이어야 합니다", shared.ErrInvalidInput)
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return fmt.Errorf("%w: 비밀번호는 영문과 숫자를 포함해야 합니다", shared.ErrInvalidInput)
	}
	return nil
}

// ValidatePasswordConfirm checks the confirmation field against the password.
func ValidatePasswordConfirm(password, confirm string) error {
	if confirm == "" {
		return fmt.Errorf("%w: 비밀번호 확인을 입력해주세요", shared.ErrInvalidInput)
	}
	if password != confirm {
		return fmt.Errorf("%w: 비밀번호가 일치하지 않습니다", shared.ErrInvalidInput)
	}
	return nil
}

// ValidateName requires a display name of at least two characters.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: 이름을 입력해주세요", shared.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) < 2 {
		return fmt.Errorf("%w: 이름은 최소 2자 이상이어야 합니다", shared.ErrInvalidInput)
	}
	return nil
}
