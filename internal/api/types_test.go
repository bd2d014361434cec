package api

import (
	"encoding/xml"
	"testing"
	"time"
)

func TestPerson_Name(t *testing.T) {
	tests := []struct {
		name     string
		person   Person
		expected string
	}{
		{"both", Person{FirstName: "Grace", LastName: "Hopper"}, "Grace Hopper"},
		{"first only", Person{FirstName: "Grace"}, "Grace"},
		{"last only", Person{LastName: "Hopper"}, "Hopper"},
		{"neither", Person{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.person.Name(); got != tt.expected {
				t.Errorf("Name() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUpdate_Time(t *testing.T) {
	tests := []struct {
		name      string
		timestamp int64
		expected  time.Time
	}{
		{"milliseconds", 1300000000123, time.UnixMilli(1300000000123)},
		{"absent", 0, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Update{Timestamp: tt.timestamp}
			if got := u.Time(); !got.Equal(tt.expected) {
				t.Errorf("Time() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPerson_DecodeExtended(t *testing.T) {
	doc := `<person>
  <id>X1</id>
  <first-name>Grace</first-name>
  <last-name>Hopper</last-name>
  <positions total="1">
    <position><title>Rear Admiral</title><is-current>true</is-current><company><name>US Navy</name></company></position>
  </positions>
  <location><name>Arlington</name><country><code>us</code></country></location>
</person>`

	var p Person
	if err := xml.Unmarshal([]byte(doc), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != "X1" || p.Name() != "Grace Hopper" {
		t.Errorf("unexpected person: %+v", p)
	}
	if len(p.Positions) != 1 || !p.Positions[0].IsCurrent || p.Positions[0].Company.Name != "US Navy" {
		t.Errorf("unexpected positions: %+v", p.Positions)
	}
	if p.Location == nil || p.Location.CountryCode != "us" {
		t.Errorf("unexpected location: %+v", p.Location)
	}
}
