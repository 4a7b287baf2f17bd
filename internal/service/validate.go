package service

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	titleMinLen  = 5
	titleMaxLen  = 100
	optionMaxLen = 50
	maxOptions   = 10
	usernameMin  = 3
	usernameMax  = 20
	passwordMin  = 6
)

// FieldErrors maps a form field to its inline message. A nil map means the
// form passed; any entry blocks submission before a network call is made.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + f[field]
	}
	return strings.Join(parts, "; ")
}

// ValidateCreate checks a create/update form. Empty option rows are ignored,
// mirroring the form's blank trailing inputs.
func ValidateCreate(title string, options []string, deadline, now int64) FieldErrors {
	errs := FieldErrors{}

	title = strings.TrimSpace(title)
	switch {
	case title == "":
		errs["title"] = "title is required"
	case utf8.RuneCountInString(title) < titleMinLen:
		errs["title"] = "title must be at least 5 characters"
	case utf8.RuneCountInString(title) > titleMaxLen:
		errs["title"] = "title must be at most 100 characters"
	}

	valid := make([]string, 0, len(options))
	seen := make(map[string]struct{})
	duplicate := false
	tooLong := false
	for _, option := range options {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		if utf8.RuneCountInString(option) > optionMaxLen {
			tooLong = true
		}
		if _, ok := seen[option]; ok {
			duplicate = true
		}
		seen[option] = struct{}{}
		valid = append(valid, option)
	}
	switch {
	case len(valid) < 2:
		errs["options"] = "at least 2 options are required"
	case len(valid) > maxOptions:
		errs["options"] = "at most 10 options are allowed"
	case duplicate:
		errs["options"] = "options must be distinct"
	case tooLong:
		errs["options"] = "each option must be at most 50 characters"
	}

	if deadline != 0 && deadline <= now {
		errs["deadline"] = "deadline must be in the future"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CleanOptions returns the trimmed, non-empty option contents in order.
func CleanOptions(options []string) []string {
	valid := make([]string, 0, len(options))
	for _, option := range options {
		option = strings.TrimSpace(option)
		if option != "" {
			valid = append(valid, option)
		}
	}
	return valid
}

// ValidateRegister checks the registration form, including the password
// confirmation.
func ValidateRegister(username, password, confirm string) FieldErrors {
	errs := FieldErrors{}

	username = strings.TrimSpace(username)
	switch {
	case username == "":
		errs["username"] = "username is required"
	case utf8.RuneCountInString(username) < usernameMin:
		errs["username"] = "username must be at least 3 characters"
	case utf8.RuneCountInString(username) > usernameMax:
		errs["username"] = "username must be at most 20 characters"
	}

	if len(password) < passwordMin {
		errs["password"] = "password must be at least 6 characters"
	} else if confirm != password {
		errs["confirm"] = "passwords do not match"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateLogin checks the login form.
func ValidateLogin(username, password string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(username) == "" {
		errs["username"] = "username is required"
	}
	if password == "" {
		errs["password"] = "password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
