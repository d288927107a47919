package auth

import "testing"

func TestParseAdminEmails(t *testing.T) {
	allow := ParseAdminEmails(" Admin@Example.com, ops@dormbase.app ,,")
	if len(allow) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(allow))
	}
	if _, ok := allow["admin@example.com"]; !ok {
		t.Error("expected lowercased admin@example.com in allow-list")
	}
	if _, ok := allow["ops@dormbase.app"]; !ok {
		t.Error("expected ops@dormbase.app in allow-list")
	}
}

func TestEffectiveRole(t *testing.T) {
	allow := ParseAdminEmails("boss@dormbase.app")

	tests := []struct {
		name   string
		stored string
		email  string
		want   string
	}{
		{"stored user stays user", "user", "someone@example.com", "user"},
		{"stored admin stays admin", "admin", "someone@example.com", "admin"},
		{"allow-list upgrades user", "user", "boss@dormbase.app", "admin"},
		{"allow-list match is case-insensitive", "user", "Boss@Dormbase.app", "admin"},
		{"empty stored role defaults to user", "", "someone@example.com", "user"},
		{"empty stored role still upgraded", "", "boss@dormbase.app", "admin"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveRole(tc.stored, tc.email, allow); got != tc.want {
				t.Errorf("EffectiveRole(%q, %q) = %q, want %q", tc.stored, tc.email, got, tc.want)
			}
		})
	}
}
