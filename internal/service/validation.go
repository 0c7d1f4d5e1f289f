package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/model"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 150
	nameMaxLength     = 150
	passwordMinLength = 8
	taskTitleMaxLen   = 200
	shortTextMaxLen   = 100
	urlMaxLen         = 255
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	validate        = validator.New()
)

// Field messages shared by the services and their tests.
const (
	msgRequired        = "This field is required."
	msgUsernameTaken   = "A user with that username already exists."
	msgEmailTaken      = "A user with that email already exists."
	msgPasswordsDiffer = "Passwords do not match."
)

func validateUsername(v *apperrors.ValidationError, username string) {
	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		v.Add("username", msgRequired)
	case n < usernameMinLength:
		v.Add("username", fmt.Sprintf("Ensure this field has at least %d characters.", usernameMinLength))
	case n > usernameMaxLength:
		v.Add("username", fmt.Sprintf("Ensure this field has no more than %d characters.", usernameMaxLength))
	case !usernamePattern.MatchString(username):
		v.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
}

func validateEmail(v *apperrors.ValidationError, email string) {
	if email == "" {
		v.Add("email", msgRequired)
		return
	}
	if err := validate.Var(email, "email"); err != nil {
		v.Add("email", "Enter a valid email address.")
	}
}

// validatePassword collects every unmet password rule on the password field.
func validatePassword(v *apperrors.ValidationError, password, username string) {
	if password == "" {
		v.Add("password", msgRequired)
		return
	}
	if utf8.RuneCountInString(password) < passwordMinLength {
		v.Add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", passwordMinLength))
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		v.Add("password", "Password must contain at least one uppercase letter.")
	}
	if !lower {
		v.Add("password", "Password must contain at least one lowercase letter.")
	}
	if !digit {
		v.Add("password", "Password must contain at least one digit.")
	}
	if username != "" && strings.EqualFold(password, username) {
		v.Add("password", "The password is too similar to the username.")
	}
}

func validateName(v *apperrors.ValidationError, field string, value *string) {
	if value != nil && utf8.RuneCountInString(*value) > nameMaxLength {
		v.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", nameMaxLength))
	}
}

func validateMaxLen(v *apperrors.ValidationError, field string, value *string, max int) {
	if value != nil && utf8.RuneCountInString(*value) > max {
		v.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", max))
	}
}

func validateURL(v *apperrors.ValidationError, field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	if err := validate.Var(*value, "url"); err != nil {
		v.Add(field, "Enter a valid URL.")
		return
	}
	validateMaxLen(v, field, value, urlMaxLen)
}

// cleanStringList trims entries, drops duplicates and reports blank entries on field.
func cleanStringList(v *apperrors.ValidationError, field string, values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		s := strings.TrimSpace(raw)
		if s == "" {
			if !v.Has(field) {
				v.Add(field, "This list may not contain blank values.")
			}
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func validateExperienceLevel(v *apperrors.ValidationError, level *string) {
	if level == nil {
		return
	}
	if !model.ExperienceLevel(*level).Valid() {
		v.Add("experience_level", fmt.Sprintf("%q is not a valid choice.", *level))
	}
}

// uniqueIDs drops duplicate ids while keeping their first-seen order.
func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
