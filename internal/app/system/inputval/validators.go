// internal/app/system/inputval/validators.go
package inputval

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Roles accepted on self-service registration. Staff roles (super_admin,
// ngo_admin, ngo_manager) are assigned by other flows, never self-selected.
var allowedSignupRoles = []string{"volunteer", "donor", "citizen"}

// IsValidSignupRole reports whether role may be chosen at registration.
func IsValidSignupRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range allowedSignupRoles {
		if role == r {
			return true
		}
	}
	return false
}

// AllowedSignupRolesList returns the roles a new account may register as.
func AllowedSignupRolesList() []string {
	out := make([]string, len(allowedSignupRoles))
	copy(out, allowedSignupRoles)
	return out
}

// IsValidHTTPURL reports whether s is an absolute http(s) URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && !strings.ContainsAny(s, " \t")
}

// IsValidObjectID reports whether s is a 24-character hex Mongo ObjectID.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// FieldError is one failed constraint on one field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the field errors from a Validate call.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every error message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Messages returns the error messages as a slice, for JSON error payloads.
func (r *Result) Messages() []string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return msgs
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Validate checks the string fields of a struct against its `validate`
// tags. Supported rules: required, max=N, min=N, email, httpurl, objectid,
// signuprole. The `label` tag supplies the human name used in messages.
func Validate(input any) *Result {
	result := &Result{}

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return result
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || field.Type.Kind() != reflect.String {
			continue
		}
		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		value := strings.TrimSpace(v.Field(i).String())

		for _, rule := range strings.Split(tag, ",") {
			rule = strings.TrimSpace(rule)
			if msg := checkRule(rule, label, value); msg != "" {
				result.add(field.Name, msg)
				// Further rules on an already-failed field just pile on
				// redundant messages.
				break
			}
			// Optional fields skip the remaining rules when empty.
			if value == "" && rule != "required" {
				break
			}
		}
	}
	return result
}

func checkRule(rule, label, value string) string {
	switch {
	case rule == "required":
		if value == "" {
			return fmt.Sprintf("%s is required.", label)
		}
	case strings.HasPrefix(rule, "max="):
		n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
		if err == nil && len([]rune(value)) > n {
			return fmt.Sprintf("%s must be at most %d characters.", label, n)
		}
	case strings.HasPrefix(rule, "min="):
		n, err := strconv.Atoi(strings.TrimPrefix(rule, "min="))
		if err == nil && value != "" && len([]rune(value)) < n {
			return fmt.Sprintf("%s must be at least %d characters.", label, n)
		}
	case rule == "email":
		if value != "" && !IsValidEmail(value) {
			return "A valid email address is required."
		}
	case rule == "httpurl":
		if value != "" && !IsValidHTTPURL(value) {
			return fmt.Sprintf("%s must be a valid http(s) URL.", label)
		}
	case rule == "objectid":
		if value != "" && !IsValidObjectID(value) {
			return fmt.Sprintf("%s is not a valid identifier.", label)
		}
	case rule == "signuprole":
		if value != "" && !IsValidSignupRole(value) {
			return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(AllowedSignupRolesList(), ", "))
		}
	}
	return ""
}
