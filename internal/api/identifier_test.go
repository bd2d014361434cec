package api

import "testing"

func TestResolveUser(t *testing.T) {
	tests := []struct {
		name string
		ref  *UserRef
		want string
	}{
		{"nil", nil, "~"},
		{"empty", &UserRef{}, "~"},
		{"id", &UserRef{ID: 42}, "id=42"},
		{"url", &UserRef{URL: "http://www.linkedin.com/in/ada"}, "url=http%3A%2F%2Fwww.linkedin.com%2Fin%2Fada"},
		{"url wins over id", &UserRef{URL: "http://x/y", ID: 42}, "url=http%3A%2F%2Fx%2Fy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveUser(tt.ref); got != tt.want {
				t.Errorf("ResolveUser() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveUserParam(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "~"},
		{"empty string", "", "~"},
		{"string passthrough", "id=7", "id=7"},
		{"string not escaped", "url=already", "url=already"},
		{"ref value", UserRef{ID: 9}, "id=9"},
		{"ref pointer", &UserRef{ID: 9}, "id=9"},
		{"map id int", map[string]any{"id": 42}, "id=42"},
		{"map id string", map[string]any{"id": "42"}, "id=42"},
		{"map id float", map[string]any{"id": float64(42)}, "id=42"},
		{"map id zero", map[string]any{"id": 0}, "id=0"},
		{"map id garbage", map[string]any{"id": "abc"}, "id=0"},
		{"map url", map[string]any{"url": "http://x/y"}, "url=http%3A%2F%2Fx%2Fy"},
		{"map url wins", map[string]any{"url": "http://x/y", "id": 1}, "url=http%3A%2F%2Fx%2Fy"},
		{"map empty url still selects by url", map[string]any{"url": "", "id": 3}, "url="},
		{"map nil url falls back to id", map[string]any{"url": nil, "id": 3}, "id=3"},
		{"string map", map[string]string{"id": "5"}, "id=5"},
		{"empty map", map[string]any{}, "~"},
		{"unsupported", 3.5, "~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveUserParam(tt.in); got != tt.want {
				t.Errorf("ResolveUserParam(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int64
	}{
		{int32(5), 5},
		{uint(6), 6},
		{"  8 ", 8},
		{"3.9", 3},
		{"NaN", 0},
		{uint64(1 << 63), 0},
		{true, 0},
	}
	for _, tt := range tests {
		if got := toInt(tt.in); got != tt.want {
			t.Errorf("toInt(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
