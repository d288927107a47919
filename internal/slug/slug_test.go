package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Founders Hall", "founders-hall"},
		{"York University", "york-university"},
		{"Founders  Residence", "founders-residence"},
		{"St. George's Tower", "st-georges-tower"},
		{"  Trailing  ", "trailing"},
		{"ALL_CAPS_NAME", "all-caps-name"},
		{"Pond Rd. 2", "pond-rd-2"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{"Founders Hall", "york-university", "St. George's Tower"}
	for _, in := range inputs {
		once := Make(in)
		if twice := Make(once); twice != once {
			t.Errorf("Make not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
