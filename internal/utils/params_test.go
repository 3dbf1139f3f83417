package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 10, 10},
		{"   ", 10, 10},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		{" 42\t", 7, 42},
		// invalid -> default
		{"x", 5, 5},
		{"4 2", 5, 5},
		{"2-3", 1, 1},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestPositiveInt(t *testing.T) {
	cases := []struct {
		s    string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{" 7 ", 7, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"three", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := PositiveInt(tc.s)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("PositiveInt(%q) = (%d, %v); want (%d, %v)", tc.s, got, ok, tc.want, tc.ok)
		}
	}
}
