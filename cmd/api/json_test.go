package main

import "testing"

func TestPasswordValidator(t *testing.T) {
	type probe struct {
		Password string `validate:"password"`
	}

	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Str0ng!pass", true},
		{"valid with symbol class", "Another9$", true},
		{"too short", "S1!a", false},
		{"no uppercase", "weak1pass!", false},
		{"no digit", "Weakpass!!", false},
		{"no symbol", "Weakpass11", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate.Struct(probe{Password: tc.password})
			if tc.ok && err != nil {
				t.Errorf("expected %q to pass, got %v", tc.password, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("expected %q to fail", tc.password)
			}
		})
	}
}
