package outfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", Text, false},
		{"text", Text, false},
		{"json", JSON, false},
		{"xml", XML, false},
		{"yaml", Text, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		if tt.in != "" {
			assert.Equal(t, tt.in, got.String())
		}
	}
}

func TestModeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Text, ModeFromContext(ctx))
	assert.False(t, IsStructured(ctx))

	ctx = WithMode(ctx, XML)
	assert.True(t, IsXML(ctx))
	assert.False(t, IsJSON(ctx))
	assert.True(t, IsStructured(ctx))

	assert.False(t, IsCompact(ctx))
	assert.True(t, IsCompact(WithCompact(ctx, true)))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteJSONMaybeCompact(&buf, map[string]int{"a": 1}, true))
	assert.Equal(t, "{\"a\":1}\n", buf.String())
}

func TestNormalizeJSONOutput(t *testing.T) {
	var nilSlice []string
	assert.Equal(t, map[string]any{"items": []any{}}, normalizeJSONOutput(nilSlice))
	assert.Equal(t, map[string]any{"items": []string{"a"}}, normalizeJSONOutput([]string{"a"}))
	assert.Equal(t, map[string]any{"items": [2]int{1, 2}}, normalizeJSONOutput([2]int{1, 2}))
	assert.Equal(t, []byte("x"), normalizeJSONOutput([]byte("x")))
	assert.Equal(t, "s", normalizeJSONOutput("s"))
	assert.Nil(t, normalizeJSONOutput(nil))
}

func TestApplyQuery(t *testing.T) {
	type person struct {
		First string `json:"first_name"`
		Last  string `json:"last_name"`
	}
	people := []person{{"Ada", "Lovelace"}, {"Alan", "Turing"}}

	got, err := ApplyQuery(people, ".items[].first_name")
	require.NoError(t, err)
	assert.Equal(t, []any{"Ada", "Alan"}, got)

	got, err = ApplyQuery(people, ".items | length")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	got, err = ApplyQuery(people, `.items[] | select(.last_name \!= "Turing") | .first_name`)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got)

	_, err = ApplyQuery(people, ".items[")
	assert.ErrorContains(t, err, "invalid query expression")

	_, err = ApplyQuery(people, `error("boom")`)
	assert.ErrorContains(t, err, "query error")

	got, err = ApplyQuery(map[string]any{"a": 1}, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, got)
}

type rawDoc struct{ body string }

func (r rawDoc) Body() []byte { return []byte(r.body) }

func TestFormatterOutput(t *testing.T) {
	data := map[string]any{"first_name": "Ada"}

	t.Run("json with query", func(t *testing.T) {
		var out bytes.Buffer
		ctx := WithQuery(WithMode(context.Background(), JSON), ".first_name")
		require.NoError(t, NewFormatter(ctx, &out, &out).Output(data))
		assert.Equal(t, "\"Ada\"\n", out.String())
	})

	t.Run("json with template", func(t *testing.T) {
		var out bytes.Buffer
		ctx := WithTemplate(WithMode(context.Background(), JSON), "hi {{.first_name}}")
		require.NoError(t, NewFormatter(ctx, &out, &out).Output(data))
		assert.Equal(t, "hi Ada", out.String())
	})

	t.Run("xml raw", func(t *testing.T) {
		var out bytes.Buffer
		ctx := WithMode(context.Background(), XML)
		require.NoError(t, NewFormatter(ctx, &out, &out).Output(rawDoc{"<person/>"}))
		assert.Equal(t, "<person/>\n", out.String())
	})

	t.Run("xml marshal", func(t *testing.T) {
		type status struct {
			OK bool `xml:"ok"`
		}
		var out bytes.Buffer
		ctx := WithMode(context.Background(), XML)
		require.NoError(t, NewFormatter(ctx, &out, &out).Output(status{OK: true}))
		assert.Equal(t, "<status>\n  <ok>true</ok>\n</status>\n", out.String())
	})

	t.Run("text writes nothing", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewFormatter(context.Background(), &out, &out).Output(data))
		assert.Empty(t, out.String())
	})
}

func TestFormatterTable(t *testing.T) {
	var out, errOut bytes.Buffer
	f := NewFormatter(context.Background(), &out, &errOut)

	require.True(t, f.StartTable([]string{"ID", "NAME"}))
	f.Row("1", "Ada Lovelace")
	require.NoError(t, f.EndTable())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID  NAME", strings.TrimSpace(lines[0]))

	f.Empty("No connections found")
	assert.Equal(t, "No connections found\n", errOut.String())

	structured := NewFormatter(WithMode(context.Background(), JSON), &out, &errOut)
	assert.False(t, structured.StartTable([]string{"ID"}))
}
