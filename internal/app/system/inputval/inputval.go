// internal/app/system/inputval/inputval.go
//
// Package inputval validates request input before it reaches the stores.
// Handlers describe constraints with struct tags and call Validate; field
// messages come back ready to hand to respond.ValidationErr.
package inputval

import (
	"regexp"
	"strings"
)

// emailLocalPart and emailDomain reject leading/trailing/consecutive dots,
// which the permissive classic regex let through.
var (
	emailLocal  = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*$`)
	emailDomain = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)*$`)
)

// IsValidEmail reports whether s looks like a plain addr-spec email.
// Display-name forms ("Name <a@b>") are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	return emailLocal.MatchString(local) && emailDomain.MatchString(domain)
}
