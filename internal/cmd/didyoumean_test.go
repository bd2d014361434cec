package cmd

import "testing"

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "b", 1},
		{"kitten", "sitting", 3},
		{"profile", "profle", 1},
		{"abc", "abc", 0},
	}
	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []string{"auth", "profile", "connections", "search", "message", "network", "status", "oauth", "api", "version"}
	tests := []struct {
		input string
		want  string
	}{
		{"profle", "profile"},
		{"serach", "search"},
		{"mesage", "message"},
		{"netwrk", "network"},
		{"Versoin", "version"},
		{"conn", "connections"},
		{"zzzzzzzzz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := suggestCommand(tt.input, commands); got != tt.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	names := []string{"--output", "--query", "--extended", "--twitter"}
	tests := []struct {
		input string
		want  string
	}{
		{"--outptu", "--output"},
		{"--extendd", "--extended"},
		{"-twiter", "--twitter"},
		{"--", ""},
		{"--zzzzzzzzzz", ""},
	}
	for _, tt := range tests {
		if got := suggestFlag(tt.input, names); got != tt.want {
			t.Errorf("suggestFlag(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
