package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/outfmt"
	"github.com/lnkd/linkedin-cli/internal/validation"
)

// searchFlagKeys are the search parameters exposed as dedicated flags.
var searchFlagKeys = []string{
	"keywords", "first-name", "last-name", "company-name", "title",
	"school", "country-code", "postal-code", "distance", "start", "count", "sort",
}

func newSearchCmd() *cobra.Command {
	var extra []string
	values := make(map[string]*string, len(searchFlagKeys))

	cmd := &cobra.Command{
		Use:   "search [KEYWORDS...]",
		Short: "Search for people",
		Long: strings.TrimSpace(`
Search LinkedIn members. Positional arguments are joined into --keywords.
Parameters without a dedicated flag can be passed with --param key=value;
keys LinkedIn does not accept are dropped.
`),
		Example: strings.TrimSpace(`
  li search golang engineer
  li search --company-name Acme --title "site reliability" -o json
  li search --keywords rust --param current-company=true
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make(map[string]string)
			for _, key := range searchFlagKeys {
				if cmd.Flags().Changed(key) {
					params[key] = *values[key]
				}
			}
			if len(args) > 0 {
				kw := strings.Join(args, " ")
				if existing := params["keywords"]; existing != "" {
					kw = existing + " " + kw
				}
				params["keywords"] = kw
			}
			for _, kv := range extra {
				key, value, err := validation.ParseKeyValue(kv)
				if err != nil {
					return &api.ArgumentError{Arg: "--param", Reason: err.Error()}
				}
				if _, ok := api.FilterSearchParams(map[string]string{key: value})[key]; !ok {
					printIfNotQuiet(cmd, "Ignoring unsupported search parameter %q\n", key)
					continue
				}
				params[key] = value
			}
			if len(params) == 0 {
				return &api.ArgumentError{Arg: "search", Reason: "at least one search parameter is required"}
			}

			client, err := newClientFactory().authenticated(cmdContext(cmd))
			if err != nil {
				return err
			}
			res, err := client.Search(cmdContext(cmd), params)
			if err != nil {
				return err
			}
			return printResult(cmd, res, func(f *outfmt.Formatter, s *api.PeopleSearch) error {
				if len(s.People.People) == 0 {
					f.Empty("No people found")
					return nil
				}
				if err := renderPeople(f, s.People.People); err != nil {
					return err
				}
				printPageFooter(cmd, s.People.Start, len(s.People.People), s.People.Total)
				return nil
			})
		},
	}

	for _, key := range searchFlagKeys {
		values[key] = cmd.Flags().String(key, "", "Search "+strings.ReplaceAll(key, "-", " "))
	}
	cmd.Flags().StringArrayVar(&extra, "param", nil, "Additional search parameter as key=value (repeatable)")

	return cmd
}
