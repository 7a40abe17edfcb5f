package handler

import "testing"

func TestRegistrationRole(t *testing.T) {
	cases := []struct {
		requested string
		byAdmin   bool
		want      string
	}{
		{"", false, "USER"},
		{"USER", false, "USER"},
		{"ADMIN", false, "USER"}, // public registration cannot escalate
		{"admin", true, "ADMIN"},
		{"ADMIN", true, "ADMIN"},
		{"ROOT", true, "USER"},
	}
	for _, tc := range cases {
		if got := registrationRole(tc.requested, tc.byAdmin); got != tc.want {
			t.Fatalf("registrationRole(%q, %v) = %q, want %q", tc.requested, tc.byAdmin, got, tc.want)
		}
	}
}
