package cmd

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/outfmt"
	"github.com/lnkd/linkedin-cli/internal/urlparse"
	"github.com/lnkd/linkedin-cli/internal/validation"
)

// maxProfileFetches bounds concurrent profile requests.
const maxProfileFetches = 4

func newProfileCmd() *cobra.Command {
	var (
		ids      []int64
		urls     []string
		extended bool
	)

	cmd := &cobra.Command{
		Use:   "profile [MEMBER...]",
		Short: "Show member profiles",
		Long: strings.TrimSpace(`
Show one or more member profiles. Without arguments the authenticated
member's own profile is shown.

A MEMBER argument is a member id, a public profile URL or "~" for yourself.
`),
		Example: strings.TrimSpace(`
  li profile
  li profile --extended -o json
  li profile --url https://www.linkedin.com/in/someone
  li profile AbC123 --id 42
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := profileTargets(args, ids, urls)
			if err != nil {
				return err
			}
			results, err := fetchProfiles(cmd, targets, extended)
			if err != nil {
				return err
			}
			if len(results) == 1 {
				return printResult(cmd, results[0], func(f *outfmt.Formatter, p *api.Person) error {
					return renderPerson(f, p, extended)
				})
			}
			return printProfiles(cmd, results, extended)
		},
	}

	cmd.Flags().Int64SliceVar(&ids, "id", nil, "Member id (repeatable)")
	cmd.Flags().StringSliceVar(&urls, "url", nil, "Public profile URL (repeatable)")
	cmd.Flags().BoolVar(&extended, "extended", false, "Fetch the extended field set")

	return cmd
}

// profileTargets turns arguments and flags into people path selectors.
// No input means the authenticated member.
func profileTargets(args []string, ids []int64, urls []string) ([]any, error) {
	var targets []any
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		switch {
		case arg == api.SelfID || arg == "me":
			targets = append(targets, nil)
		case urlparse.LooksLikeURL(arg):
			target, err := urlTarget("MEMBER", arg)
			if err != nil {
				return nil, err
			}
			targets = append(targets, target)
		default:
			if err := validation.ValidateMemberID(arg); err != nil {
				return nil, &api.ArgumentError{Arg: "MEMBER", Reason: err.Error()}
			}
			targets = append(targets, "id="+arg)
		}
	}
	for _, id := range ids {
		targets = append(targets, map[string]any{"id": id})
	}
	for _, u := range urls {
		target, err := urlTarget("--url", u)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	if len(targets) == 0 {
		targets = append(targets, nil)
	}
	return targets, nil
}

// urlTarget resolves a profile URL. Member-id URLs select by id; public
// profile URLs are passed to the API in canonical form.
func urlTarget(arg, raw string) (any, error) {
	p, err := urlparse.Parse(raw)
	if err != nil {
		return nil, &api.ArgumentError{Arg: arg, Reason: err.Error()}
	}
	if p.MemberID != "" {
		return "id=" + p.MemberID, nil
	}
	if err := validation.ValidateProfileURL(p.URL); err != nil {
		return nil, &api.ArgumentError{Arg: arg, Reason: err.Error()}
	}
	return api.UserRef{URL: p.URL}, nil
}

// fetchProfiles fetches targets concurrently, one client per request, and
// returns the results in target order. The first failure cancels the rest.
func fetchProfiles(cmd *cobra.Command, targets []any, extended bool) ([]*api.Result, error) {
	factory := newClientFactory()
	results := make([]*api.Result, len(targets))

	g, ctx := errgroup.WithContext(cmdContext(cmd))
	g.SetLimit(maxProfileFetches)
	for i, target := range targets {
		i, target := i, target // per-iteration copies (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			client, err := factory.authenticated(ctx)
			if err != nil {
				return err
			}
			res, err := client.Profile(ctx, target, extended)
			if err != nil {
				return err
			}
			if err := res.Err(); err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// profileDocuments is several profile documents under one root element.
type profileDocuments []*api.Result

func (d profileDocuments) Body() []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<people total=\"" + strconv.Itoa(len(d)) + "\">\n")
	for _, res := range d {
		body := bytes.TrimSpace(res.Body())
		if bytes.HasPrefix(body, []byte("<?xml")) {
			if end := bytes.Index(body, []byte("?>")); end >= 0 {
				body = bytes.TrimSpace(body[end+2:])
			}
		}
		buf.Write(body)
		buf.WriteByte('\n')
	}
	buf.WriteString("</people>\n")
	return buf.Bytes()
}

func printProfiles(cmd *cobra.Command, results []*api.Result, extended bool) error {
	f := newFormatter(cmd)
	switch outfmt.ModeFromContext(cmdContext(cmd)) {
	case outfmt.XML:
		return f.Output(profileDocuments(results))
	case outfmt.JSON:
		docs := make([]any, 0, len(results))
		for _, res := range results {
			m, err := res.Map()
			if err != nil {
				return err
			}
			docs = append(docs, m)
		}
		return f.Output(docs)
	}

	people := make([]api.Person, len(results))
	for i, res := range results {
		if err := res.Decode(&people[i]); err != nil {
			return err
		}
	}
	if extended {
		for i := range people {
			if i > 0 {
				f.Row()
			}
			if err := renderPerson(f, &people[i], true); err != nil {
				return err
			}
		}
		return nil
	}
	return renderPeople(f, people)
}

func renderPerson(f *outfmt.Formatter, p *api.Person, extended bool) error {
	f.Row("Name:", p.Name())
	if p.ID != "" {
		f.Row("ID:", p.ID)
	}
	if p.Headline != "" {
		f.Row("Headline:", p.Headline)
	}
	if extended {
		if p.Location != nil && p.Location.Name != "" {
			f.Row("Location:", p.Location.Name)
		}
		if p.CurrentStatus != "" {
			f.Row("Status:", p.CurrentStatus)
		}
		for _, pos := range p.Positions {
			line := pos.Title
			if pos.Company.Name != "" {
				line += " at " + pos.Company.Name
			}
			if pos.IsCurrent {
				line += " (current)"
			}
			f.Row("Position:", line)
		}
		if p.Summary != "" {
			f.Row("Summary:", p.Summary)
		}
		if p.PublicProfileURL != "" {
			f.Row("URL:", p.PublicProfileURL)
		}
	}
	return f.EndTable()
}

func renderPeople(f *outfmt.Formatter, people []api.Person) error {
	f.StartTable([]string{"ID", "NAME", "HEADLINE"})
	for _, p := range people {
		f.Row(p.ID, p.Name(), p.Headline)
	}
	return f.EndTable()
}
