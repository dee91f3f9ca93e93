package theme

import "testing"

func TestResolveNormalizesKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"compact", "compact"},
		{"  Large-Print ", "large_print"},
		{"", DefaultKey},
		{"neon", DefaultKey},
	}
	for _, tt := range tests {
		if got := Resolve(tt.key).Key; got != tt.want {
			t.Fatalf("Resolve(%q).Key = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestOptionsResolve(t *testing.T) {
	t.Parallel()

	for _, option := range Options() {
		if Resolve(option.Value).Key != option.Value {
			t.Fatalf("option %q does not resolve to itself", option.Value)
		}
	}
}
