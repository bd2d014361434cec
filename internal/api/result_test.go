package api

import (
	"errors"
	"net/http"
	"testing"
)

const profileXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<person>
  <id>abc</id>
  <first-name>Ada</first-name>
  <last-name>Lovelace</last-name>
  <positions total="1">
    <position><title>Analyst</title><is-current>true</is-current></position>
  </positions>
</person>`

func newTestResult(status int, body string) *Result {
	return newResult(&Response{StatusCode: status, Header: http.Header{"X-Li-Uuid": {"u1"}}, Body: []byte(body)})
}

func TestResult_Accessors(t *testing.T) {
	r := newTestResult(http.StatusOK, profileXML)

	if !r.IsSuccess() {
		t.Error("expected 200 to be success")
	}
	if r.String() != profileXML {
		t.Error("expected String to return the raw body")
	}
	body := r.Body()
	body[0] = 'X'
	if r.String() != profileXML {
		t.Error("expected Body to return a copy")
	}
	h := r.Header()
	h.Set("X-Li-Uuid", "changed")
	if r.Header().Get("X-Li-Uuid") != "u1" {
		t.Error("expected Header to return a copy")
	}
}

func TestResult_Map(t *testing.T) {
	r := newTestResult(http.StatusOK, profileXML)

	m, err := r.Map()
	if err != nil {
		t.Fatalf("Map() error: %v", err)
	}
	person, ok := m["person"].(map[string]any)
	if !ok {
		t.Fatalf("expected person root, got %v", m)
	}
	if person["first-name"] != "Ada" {
		t.Errorf("unexpected first-name %v", person["first-name"])
	}
	positions := person["positions"].(map[string]any)
	if positions["-total"] != "1" {
		t.Errorf("expected attribute keyed -total, got %v", positions)
	}

	again, _ := r.Map()
	if again["person"].(map[string]any)["first-name"] != "Ada" {
		t.Error("expected cached parse on second access")
	}
}

func TestResult_MapErrors(t *testing.T) {
	if _, err := newTestResult(http.StatusOK, "   ").Map(); err == nil {
		t.Error("expected error for empty body")
	}
	if _, err := newTestResult(http.StatusOK, "not xml <").Map(); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestResult_Value(t *testing.T) {
	r := newTestResult(http.StatusOK, profileXML)

	tests := []struct {
		path []string
		want string
	}{
		{[]string{"person", "first-name"}, "Ada"},
		{[]string{"person", "positions", "position", "title"}, "Analyst"},
		{[]string{"person", "missing"}, ""},
		{[]string{"person", "first-name", "deeper"}, ""},
	}
	for _, tt := range tests {
		if got := r.Value(tt.path...); got != tt.want {
			t.Errorf("Value(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}

	mixed := newTestResult(http.StatusOK, `<connections total="3">none</connections>`)
	if got := mixed.Value("connections"); got != "none" {
		t.Errorf("expected #text fallback, got %q", got)
	}
	if got := newTestResult(http.StatusOK, "").Value("x"); got != "" {
		t.Errorf("expected empty value for empty body, got %q", got)
	}
}

func TestResult_Query(t *testing.T) {
	r := newTestResult(http.StatusOK, profileXML)

	got, err := r.Query(".person | [.\"first-name\", .\"last-name\"] | join(\" \")")
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(got) != 1 || got[0] != "Ada Lovelace" {
		t.Errorf("unexpected query result %v", got)
	}

	if _, err := r.Query(".person | ("); err == nil {
		t.Error("expected parse error")
	}
	if _, err := r.Query(".person | error(\"x\")"); err == nil {
		t.Error("expected runtime error")
	}
}

func TestResult_Decode(t *testing.T) {
	var p Person
	if err := newTestResult(http.StatusOK, profileXML).Decode(&p); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if p.Name() != "Ada Lovelace" {
		t.Errorf("unexpected name %q", p.Name())
	}
	if len(p.Positions) != 1 || p.Positions[0].Title != "Analyst" {
		t.Errorf("unexpected positions %+v", p.Positions)
	}

	if err := newTestResult(http.StatusOK, "<").Decode(&p); err == nil {
		t.Error("expected decode error")
	}
}

func TestResult_Err(t *testing.T) {
	if err := newTestResult(http.StatusOK, profileXML).Err(); err != nil {
		t.Errorf("expected nil for success, got %v", err)
	}

	doc := `<error><status>401</status><timestamp>1</timestamp><request-id>R9</request-id><error-code>0</error-code><message>Invalid access token.</message></error>`
	err := newTestResult(http.StatusUnauthorized, doc).Err()
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "Invalid access token." || apiErr.RequestID != "R9" || apiErr.StatusCode != 401 {
		t.Errorf("unexpected APIError %+v", apiErr)
	}
	if !IsAuthError(err) {
		t.Error("expected IsAuthError")
	}

	err = newTestResult(http.StatusBadGateway, "<html>gateway</html>").Err()
	if !errors.As(err, &apiErr) || apiErr.Message != "Bad Gateway" {
		t.Errorf("expected status text fallback, got %v", err)
	}
}
