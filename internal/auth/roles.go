package auth

import "strings"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ParseAdminEmails splits a comma-separated allow-list (the ADMIN_EMAILS
// variable) into a lookup set. Entries are trimmed and lowercased.
func ParseAdminEmails(raw string) map[string]struct{} {
	allow := make(map[string]struct{})
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allow[e] = struct{}{}
		}
	}
	return allow
}

// EffectiveRole returns the stored role, upgraded to admin when the email is
// on the allow-list. The allow-list is an escape hatch so granting admin
// rights does not require touching the database.
func EffectiveRole(storedRole, email string, adminEmails map[string]struct{}) string {
	if storedRole == RoleAdmin {
		return RoleAdmin
	}
	if _, ok := adminEmails[strings.ToLower(strings.TrimSpace(email))]; ok {
		return RoleAdmin
	}
	if storedRole == "" {
		return RoleUser
	}
	return storedRole
}
