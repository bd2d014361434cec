package cmd

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/lnkd/linkedin-cli/internal/debug"
	"github.com/lnkd/linkedin-cli/internal/iocontext"
	"github.com/lnkd/linkedin-cli/internal/oauth"
	"github.com/lnkd/linkedin-cli/internal/outfmt"
)

func newOAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth",
		Short: "Invoke OAuth operations directly",
		Long:  "Low-level access to the client's operation dispatcher and its OAuth consumer.",
	}

	cmd.AddCommand(newOAuthCallCmd())
	cmd.AddCommand(newOAuthOperationsCmd())

	return groupCmd(cmd)
}

type callResult struct {
	XMLName   xml.Name `xml:"call" json:"-"`
	Operation string   `xml:"operation" json:"operation"`
	Result    any      `xml:"result" json:"result"`
	Saved     bool     `xml:"saved,omitempty" json:"saved,omitempty"`
}

func newOAuthCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call OPERATION [ARGS...]",
		Short: "Dispatch an operation by name",
		Long: `Dispatch an operation by name. Operations returning an access token
rebind the client and store the token on the active profile.

Run 'li oauth operations' for the available names.`,
		Example: "  li oauth call requestToken\n  li oauth call refreshToken REFRESH_TOKEN\n  li oauth call isAuthenticated",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			s, err := newClientFactory().consumer(ctx)
			if err != nil {
				return err
			}

			result, err := s.Call(ctx, args[0], args[1:]...)
			if err != nil {
				return err
			}
			out := callResult{Operation: args[0], Result: result}
			if tok, ok := result.(*oauth2.Token); ok && tok != nil {
				if out.Saved, err = s.saveToken(tok); err != nil {
					return err
				}
			}

			if outfmt.IsStructured(ctx) {
				return newFormatter(cmd).Output(out)
			}
			return printCallText(cmd, s.profile, out)
		},
	}
}

func printCallText(cmd *cobra.Command, profile string, out callResult) error {
	w := iocontext.GetIO(cmdContext(cmd)).Out
	switch v := out.Result.(type) {
	case nil:
		_, _ = fmt.Fprintln(w, "(none)")
	case *oauth2.Token:
		_, _ = fmt.Fprintf(w, "Access token: %s\n", debug.MaskSecret(v.AccessToken))
		if !v.Expiry.IsZero() {
			_, _ = fmt.Fprintf(w, "Expires: %s\n", v.Expiry.UTC().Format(time.RFC3339))
		}
		if out.Saved {
			printIfNotQuiet(cmd, "Token stored on profile %q\n", profile)
		}
	case *oauth.RequestToken:
		_, _ = fmt.Fprintf(w, "State: %s\n", v.State)
		_, _ = fmt.Fprintf(w, "Authorization URL: %s\n", v.AuthURL)
	default:
		_, _ = fmt.Fprintf(w, "%v\n", v)
	}
	return nil
}

type operationList struct {
	XMLName    xml.Name `xml:"operations" json:"-"`
	Operations []string `xml:"operation" json:"operations"`
}

func newOAuthOperationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "operations",
		Aliases: []string{"ops"},
		Short:   "List dispatchable operation names",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newClientFactory().newClient("", oauth.Config{})
			names := client.Operations()

			f := newFormatter(cmd)
			if outfmt.IsStructured(cmdContext(cmd)) {
				return f.Output(operationList{Operations: names})
			}
			f.StartTable([]string{"OPERATION"})
			for _, name := range names {
				f.Row(name)
			}
			return f.EndTable()
		},
	}
}
