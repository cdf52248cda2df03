package env

import "testing"

func TestGet(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		set      bool
		fallback string
		want     string
	}{
		{"set", "console", true, "json", "console"},
		{"unset", "", false, "json", "json"},
		{"blank", "   ", true, "json", "json"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := "DOCINTEL_TEST_" + tc.name
			if tc.set {
				t.Setenv(key, tc.value)
			}
			if got := Get(key, tc.fallback); got != tc.want {
				t.Fatalf("Get(%s) = %q, want %q", key, got, tc.want)
			}
		})
	}
}
