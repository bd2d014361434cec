package api

import (
	"context"
	"encoding/xml"
	"net/http"
)

type activity struct {
	XMLName     xml.Name `xml:"activity"`
	Locale      string   `xml:"locale,attr"`
	ContentType string   `xml:"content-type"`
	Body        string   `xml:"body"`
}

type currentStatus struct {
	XMLName xml.Name `xml:"current-status"`
	Text    string   `xml:",chardata"`
}

// PostNetworkUpdate posts an activity to the member's network stream. It
// is visible to connections only, unlike the current status.
func (c *Client) PostNetworkUpdate(ctx context.Context, status string) (bool, error) {
	d, err := c.DraftNetworkUpdate(status)
	if err != nil {
		return false, err
	}
	return c.submit(ctx, d)
}

// DraftNetworkUpdate builds the activity request PostNetworkUpdate would send.
func (c *Client) DraftNetworkUpdate(status string) (Draft, error) {
	doc, err := marshalDocument(activity{
		Locale:      c.cfg.Locale,
		ContentType: "linkedin-html",
		Body:        status,
	})
	if err != nil {
		return Draft{}, err
	}
	return Draft{Operation: "network update", Method: http.MethodPost, Path: "/v1/people/~/person-activities", Body: RawBody{Data: doc}}, nil
}

// PostStatusUpdate replaces the member's current status, optionally
// cross-posting it to a linked Twitter account.
func (c *Client) PostStatusUpdate(ctx context.Context, status string, postToTwitter bool) (bool, error) {
	d, err := c.DraftStatusUpdate(status, postToTwitter)
	if err != nil {
		return false, err
	}
	return c.submit(ctx, d)
}

// DraftStatusUpdate builds the request PostStatusUpdate would send.
func (c *Client) DraftStatusUpdate(status string, postToTwitter bool) (Draft, error) {
	path := "/v1/people/~/current-status"
	if postToTwitter {
		path += "?twitter-post=true"
	}
	doc, err := marshalDocument(currentStatus{Text: status})
	if err != nil {
		return Draft{}, err
	}
	return Draft{Operation: "status update", Method: http.MethodPut, Path: path, Body: RawBody{Data: doc}}, nil
}
