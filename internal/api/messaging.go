package api

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/lnkd/linkedin-cli/internal/debug"
)

var stripPolicy = bluemonday.StrictPolicy()

// StripText removes markup tags and surrounding whitespace. Entities are
// decoded back to text since the XML encoder escapes on output.
func StripText(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

type mailboxItem struct {
	XMLName    xml.Name    `xml:"mailbox-item"`
	Recipients []recipient `xml:"recipients>recipient"`
	Body       string      `xml:"body"`
	Subject    string      `xml:"subject"`
}

type recipient struct {
	Person personRef `xml:"person"`
}

type personRef struct {
	Path string `xml:"path,attr"`
}

// Message sends a message to one or more members by id. It reports true
// when LinkedIn answers 201 Created.
func (c *Client) Message(ctx context.Context, subject, body string, recipients []string) (bool, error) {
	d, err := c.DraftMessage(subject, body, recipients)
	if err != nil {
		return false, err
	}
	return c.submit(ctx, d)
}

// DraftMessage builds the mailbox request Message would send.
func (c *Client) DraftMessage(subject, body string, recipients []string) (Draft, error) {
	doc, err := messageDocument(subject, body, recipients)
	if err != nil {
		return Draft{}, err
	}
	return Draft{Operation: "message", Method: http.MethodPost, Path: "/v1/people/~/mailbox", Body: RawBody{Data: doc}}, nil
}

func messageDocument(subject, body string, recipients []string) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, &ArgumentError{Arg: "recipients", Reason: "at least one recipient is required"}
	}
	item := mailboxItem{
		Body:    StripText(body),
		Subject: StripText(subject),
	}
	for i, id := range recipients {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, &ArgumentError{Arg: "recipients", Reason: fmt.Sprintf("recipient %d is empty", i)}
		}
		item.Recipients = append(item.Recipients, recipient{Person: personRef{Path: "/people/" + id}})
	}
	return marshalDocument(item)
}

// marshalDocument encodes v as a UTF-8 XML document with declaration.
func marshalDocument(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request document: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// created maps a write response to the boolean contract. Anything other
// than 201 is false; the reason is only logged.
func (c *Client) created(ctx context.Context, op string, resp *Response) bool {
	if resp.StatusCode == http.StatusCreated {
		return true
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("write not accepted", "operation", op, "status", resp.StatusCode, "error", newResult(resp).Err())
	}
	return false
}
