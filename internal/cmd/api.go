package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/iocontext"
	"github.com/lnkd/linkedin-cli/internal/outfmt"
	"github.com/lnkd/linkedin-cli/internal/validation"
)

func newAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Make raw API requests",
		Long: strings.TrimSpace(`
Issue a request against any API path with the active profile's credentials.
PATH is relative to the base URL, e.g. /v1/people/~/connections.
`),
	}

	cmd.AddCommand(newAPIRequestCmd(http.MethodGet))
	cmd.AddCommand(newAPIRequestCmd(http.MethodPost))
	cmd.AddCommand(newAPIRequestCmd(http.MethodPut))

	return groupCmd(cmd)
}

func newAPIRequestCmd(method string) *cobra.Command {
	var (
		params []string
		form   []string
		data   string
	)

	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " PATH",
		Short: method + " an API path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			path := strings.TrimSpace(args[0])
			if !strings.HasPrefix(path, "/") {
				return &api.ArgumentError{Arg: "PATH", Reason: "must start with /"}
			}
			if len(path) > validation.MaxURLLength {
				return &api.ArgumentError{Arg: "PATH", Reason: fmt.Sprintf("longer than %d characters", validation.MaxURLLength)}
			}

			query, err := keyValues("--param", params)
			if err != nil {
				return err
			}
			var payload api.Payload
			switch {
			case len(form) > 0:
				fields, err := keyValues("--form", form)
				if err != nil {
					return err
				}
				payload = api.FormFields(fields)
			case data != "":
				doc, err := iocontext.ReadArg(ctx, data)
				if err != nil {
					return err
				}
				payload = api.RawBody{Data: []byte(doc)}
			}

			factory := newClientFactory()
			if method == http.MethodGet {
				client, err := factory.authenticated(ctx)
				if err != nil {
					return err
				}
				res, err := client.Get(ctx, path, query)
				if err != nil {
					return err
				}
				return printRaw(cmd, res)
			}

			client, err := factory.writer(ctx)
			if err != nil {
				return err
			}
			draft := api.Draft{
				Operation: "api " + strings.ToLower(method),
				Method:    method,
				Path:      withQuery(path, query),
				Body:      previewBody(payload),
			}
			if previewed, err := maybeDryRun(cmd, client.Client, draft, map[string]string{"profile": client.profile}); previewed {
				return err
			}
			var res *api.Result
			switch method {
			case http.MethodPost:
				res, err = client.Post(ctx, withQuery(path, query), payload)
			case http.MethodPut:
				res, err = client.Put(ctx, withQuery(path, query), payload)
			}
			if err != nil {
				return err
			}
			return printRaw(cmd, res)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Query parameter as key=value (repeatable)")
	if method != http.MethodGet {
		cmd.Flags().StringArrayVarP(&form, "form", "f", nil, "Form field as key=value (repeatable)")
		cmd.Flags().StringVarP(&data, "data", "d", "", "XML request body ('-' for stdin, @file)")
		cmd.MarkFlagsMutuallyExclusive("form", "data")
	}

	return cmd
}

// previewBody renders a payload the way it goes on the wire.
func previewBody(p api.Payload) api.RawBody {
	switch body := p.(type) {
	case api.FormFields:
		return api.RawBody{Data: []byte(url.Values(body).Encode()), ContentType: api.ContentTypeForm}
	case api.RawBody:
		return body
	}
	return api.RawBody{}
}

func keyValues(flag string, pairs []string) (url.Values, error) {
	values := url.Values{}
	for _, kv := range pairs {
		key, value, err := validation.ParseKeyValue(kv)
		if err != nil {
			return nil, &api.ArgumentError{Arg: flag, Reason: err.Error()}
		}
		values.Add(key, value)
	}
	return values, nil
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + query.Encode()
}

// printRaw writes the response body as received, or converted to JSON.
// The status line goes to stderr.
func printRaw(cmd *cobra.Command, res *api.Result) error {
	if err := res.Err(); err != nil {
		return err
	}
	printIfNotQuiet(cmd, "HTTP %d %s\n", res.StatusCode(), http.StatusText(res.StatusCode()))
	if len(res.Body()) == 0 {
		return nil
	}
	if outfmt.IsJSON(cmdContext(cmd)) {
		m, err := res.Map()
		if err != nil {
			return err
		}
		return newFormatter(cmd).Output(m)
	}
	return outfmt.WriteXML(iocontext.GetIO(cmdContext(cmd)).Out, res)
}
