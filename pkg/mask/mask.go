// Package mask provides partial redaction of contact data for safe
// display and logging.
package mask

import "strings"

// Email returns a partially redacted form of an email address: the first
// character of the local part, a fixed mask, and the last character of
// the local part, with the domain unchanged. Short local parts (one or
// two characters) render as first character + mask only. Strings without
// an @ are returned unchanged.
func Email(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if len(local) <= 2 {
		return local[:1] + "***@" + domain
	}
	return local[:1] + "***" + local[len(local)-1:] + "@" + domain
}
