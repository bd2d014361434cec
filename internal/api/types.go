package api

import (
	"encoding/xml"
	"time"
)

// Person is the profile document returned by people resources.
type Person struct {
	XMLName          xml.Name     `xml:"person" json:"-"`
	ID               string       `xml:"id" json:"id,omitempty"`
	FirstName        string       `xml:"first-name" json:"first_name,omitempty"`
	LastName         string       `xml:"last-name" json:"last_name,omitempty"`
	Headline         string       `xml:"headline" json:"headline,omitempty"`
	Summary          string       `xml:"summary" json:"summary,omitempty"`
	Interests        string       `xml:"interests" json:"interests,omitempty"`
	Specialties      string       `xml:"specialties" json:"specialties,omitempty"`
	CurrentStatus    string       `xml:"current-status" json:"current_status,omitempty"`
	PictureURL       string       `xml:"picture-url" json:"picture_url,omitempty"`
	PublicProfileURL string       `xml:"public-profile-url" json:"public_profile_url,omitempty"`
	NumRecommenders  int          `xml:"num-recommenders" json:"num_recommenders,omitempty"`
	DateOfBirth      *DateOfBirth `xml:"date-of-birth" json:"date_of_birth,omitempty"`
	Positions        []Position   `xml:"positions>position" json:"positions,omitempty"`
	PhoneNumbers     []Phone      `xml:"phone-numbers>phone-number" json:"phone_numbers,omitempty"`
	Location         *Location    `xml:"location" json:"location,omitempty"`
}

// Name returns "First Last", trimmed.
func (p Person) Name() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

type DateOfBirth struct {
	Year  int `xml:"year" json:"year,omitempty"`
	Month int `xml:"month" json:"month,omitempty"`
	Day   int `xml:"day" json:"day,omitempty"`
}

type Position struct {
	ID        string `xml:"id" json:"id,omitempty"`
	Title     string `xml:"title" json:"title,omitempty"`
	Summary   string `xml:"summary" json:"summary,omitempty"`
	IsCurrent bool   `xml:"is-current" json:"is_current"`
	Company   struct {
		Name string `xml:"name" json:"name,omitempty"`
	} `xml:"company" json:"company"`
}

type Phone struct {
	Type   string `xml:"phone-type" json:"type,omitempty"`
	Number string `xml:"phone-number" json:"number,omitempty"`
}

type Location struct {
	Name        string `xml:"name" json:"name,omitempty"`
	CountryCode string `xml:"country>code" json:"country_code,omitempty"`
}

// Connections is a page of a member's connections.
type Connections struct {
	XMLName xml.Name `xml:"connections" json:"-"`
	Total   int      `xml:"total,attr" json:"total"`
	Start   int      `xml:"start,attr" json:"start"`
	Count   int      `xml:"count,attr" json:"count"`
	People  []Person `xml:"person" json:"people"`
}

// PeopleSearch is the people-search response.
type PeopleSearch struct {
	XMLName xml.Name `xml:"people-search" json:"-"`
	People  struct {
		Total  int      `xml:"total,attr" json:"total"`
		Start  int      `xml:"start,attr" json:"start"`
		Count  int      `xml:"count,attr" json:"count"`
		People []Person `xml:"person" json:"people"`
	} `xml:"people" json:"people"`
	NumResults int `xml:"num-results" json:"num_results"`
}

// Updates is a page of network updates.
type Updates struct {
	XMLName xml.Name `xml:"updates" json:"-"`
	Total   int      `xml:"total,attr" json:"total"`
	Items   []Update `xml:"update" json:"items"`
}

type Update struct {
	Timestamp     int64   `xml:"timestamp" json:"timestamp"`
	UpdateKey     string  `xml:"update-key" json:"update_key"`
	UpdateType    string  `xml:"update-type" json:"update_type"`
	IsCommentable bool    `xml:"is-commentable" json:"is_commentable"`
	Person        *Person `xml:"update-content>person" json:"person,omitempty"`
}

// Time converts the epoch-milliseconds timestamp. Zero when absent.
func (u Update) Time() time.Time {
	if u.Timestamp <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(u.Timestamp)
}
