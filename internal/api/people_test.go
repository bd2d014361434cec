package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestProfile(t *testing.T) {
	tests := []struct {
		name     string
		user     any
		extended bool
		wantPath string
	}{
		{"self", nil, false, "/v1/people/~"},
		{"by id", &UserRef{ID: 42}, false, "/v1/people/id=42"},
		{"by url", &UserRef{URL: "http://www.linkedin.com/in/ada"}, false, "/v1/people/url=http%3A%2F%2Fwww.linkedin.com%2Fin%2Fada"},
		{"extended self", nil, true, "/v1/people/~:(" + strings.Join(ProfileFields, ",") + ")"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, got := captureServer(t, http.StatusOK, `<person><first-name>Ada</first-name></person>`)
			client := newAuthedTestClient(server.URL)

			result, err := client.Profile(context.Background(), tt.user, tt.extended)
			if err != nil {
				t.Fatalf("Profile() error: %v", err)
			}
			if got.method != http.MethodGet {
				t.Errorf("Expected GET, got %s", got.method)
			}
			if got.path != tt.wantPath {
				t.Errorf("Expected path %s, got %s", tt.wantPath, got.path)
			}
			if result.Value("person", "first-name") != "Ada" {
				t.Errorf("Unexpected body %s", result.String())
			}
		})
	}
}

func TestProfile_ExtendedFieldSelector(t *testing.T) {
	server, got := captureServer(t, http.StatusOK, "<person/>")
	if _, err := newAuthedTestClient(server.URL).Profile(context.Background(), nil, true); err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	for _, field := range []string{"first-name", "public-profile-url", "date-of-birth"} {
		if !strings.Contains(got.path, field) {
			t.Errorf("Expected field selector to include %s, got %s", field, got.path)
		}
	}
}

func TestConnections(t *testing.T) {
	server, got := captureServer(t, http.StatusOK, `<connections total="2"><person/><person/></connections>`)
	client := newAuthedTestClient(server.URL)

	result, err := client.Connections(context.Background(), map[string]any{"id": 7}, url.Values{"count": {"10"}})
	if err != nil {
		t.Fatalf("Connections() error: %v", err)
	}
	if got.path != "/v1/people/id=7/connections" {
		t.Errorf("Unexpected path %s", got.path)
	}
	if got.rawQuery != "count=10" {
		t.Errorf("Unexpected query %s", got.rawQuery)
	}

	var conns Connections
	if err := result.Decode(&conns); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(conns.People) != 2 {
		t.Errorf("Expected 2 people, got %d", len(conns.People))
	}
}

func TestNetworkActivities(t *testing.T) {
	server, got := captureServer(t, http.StatusOK, `<updates total="0"/>`)

	if _, err := newAuthedTestClient(server.URL).NetworkActivities(context.Background(), nil, nil); err != nil {
		t.Fatalf("NetworkActivities() error: %v", err)
	}
	if got.path != "/v1/people/~/network/updates" {
		t.Errorf("Unexpected path %s", got.path)
	}
	if got.rawQuery != "" {
		t.Errorf("Expected no query, got %s", got.rawQuery)
	}
}

func TestSearch(t *testing.T) {
	server, got := captureServer(t, http.StatusOK, `<people-search><people total="0"/></people-search>`)

	_, err := newAuthedTestClient(server.URL).Search(context.Background(), map[string]string{
		"keywords":     "go developer",
		"company-name": "A&B",
		"bogus":        "x",
	})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if got.path != "/v1/people-search" {
		t.Errorf("Unexpected path %s", got.path)
	}
	q, err := url.ParseQuery(got.rawQuery)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if q.Get("keywords") != "go developer" {
		t.Errorf("Expected keywords decoded once, got %q", q.Get("keywords"))
	}
	if q.Get("company-name") != "A&B" {
		t.Errorf("Expected company-name A&B, got %q", q.Get("company-name"))
	}
	if q.Has("bogus") {
		t.Error("Expected unknown key to be dropped")
	}
}

func TestFilterSearchParams(t *testing.T) {
	got := FilterSearchParams(map[string]string{"title": "cto", "first-name": "ada", "x": "y"})
	if got.Encode() != "first-name=ada&title=cto" {
		t.Errorf("Unexpected filtered params %q", got.Encode())
	}
	if len(FilterSearchParams(nil)) != 0 {
		t.Error("Expected nil params to produce empty values")
	}
}
