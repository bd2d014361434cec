package api

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/clbanning/mxj/v2"
	"github.com/itchyny/gojq"
)

// Result is a read-only view over a response body. It is only built from
// a received response; XML parsing happens on first structured access.
type Result struct {
	resp *Response

	once   sync.Once
	parsed map[string]any
	err    error
}

func newResult(resp *Response) *Result {
	return &Result{resp: resp}
}

// Body returns a copy of the raw response body.
func (r *Result) Body() []byte {
	return bytes.Clone(r.resp.Body)
}

func (r *Result) String() string {
	return string(r.resp.Body)
}

// StatusCode returns the HTTP status the body arrived with.
func (r *Result) StatusCode() int {
	return r.resp.StatusCode
}

// Header returns a copy of the response headers.
func (r *Result) Header() http.Header {
	return r.resp.Header.Clone()
}

// IsSuccess reports a 2xx status.
func (r *Result) IsSuccess() bool {
	return r.resp.StatusCode >= 200 && r.resp.StatusCode < 300
}

// Map returns the body as a generic tree keyed by element name. Attributes
// are keyed "-name" and mixed text "#text".
func (r *Result) Map() (map[string]any, error) {
	r.once.Do(func() {
		if len(bytes.TrimSpace(r.resp.Body)) == 0 {
			r.err = fmt.Errorf("empty response body (status %d)", r.resp.StatusCode)
			return
		}
		m, err := mxj.NewMapXml(r.resp.Body)
		if err != nil {
			r.err = fmt.Errorf("unexpected API response format (XML decode failed): %w", err)
			return
		}
		r.parsed = map[string]any(m)
	})
	return r.parsed, r.err
}

// Query runs a jq expression over Map and returns every emitted value.
func (r *Result) Query(expr string) ([]any, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid query expression: %w", err)
	}
	m, err := r.Map()
	if err != nil {
		return nil, err
	}

	var out []any
	iter := q.Run(m)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("query error: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Value walks element names from the root and returns the text found
// there, or "" when the path does not exist.
//
//	r.Value("person", "first-name")
func (r *Result) Value(path ...string) string {
	m, err := r.Map()
	if err != nil {
		return ""
	}
	var cur any = m
	for _, name := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = node[name]
		if !ok {
			return ""
		}
	}
	switch v := cur.(type) {
	case string:
		return v
	case map[string]any:
		if text, ok := v["#text"].(string); ok {
			return text
		}
	}
	return ""
}

// Decode unmarshals the body into v with encoding/xml.
func (r *Result) Decode(v any) error {
	if err := xml.Unmarshal(r.resp.Body, v); err != nil {
		return fmt.Errorf("unexpected API response format (XML decode failed): %w", err)
	}
	return nil
}

// Err interprets a non-2xx body as a LinkedIn error document. It returns
// nil for successful results. Read operations never call it themselves.
func (r *Result) Err() error {
	if r.IsSuccess() {
		return nil
	}
	apiErr := &APIError{StatusCode: r.resp.StatusCode}
	var doc errorDocument
	if err := xml.Unmarshal(r.resp.Body, &doc); err == nil {
		apiErr.Message = strings.TrimSpace(doc.Message)
		apiErr.RequestID = strings.TrimSpace(doc.RequestID)
		apiErr.ErrorCode, _ = strconv.Atoi(strings.TrimSpace(doc.ErrorCode))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(r.resp.StatusCode)
	}
	return apiErr
}

type errorDocument struct {
	XMLName   xml.Name `xml:"error"`
	Status    string   `xml:"status"`
	Timestamp string   `xml:"timestamp"`
	RequestID string   `xml:"request-id"`
	ErrorCode string   `xml:"error-code"`
	Message   string   `xml:"message"`
}
