package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/iocontext"
	"github.com/lnkd/linkedin-cli/internal/validation"
)

func newMessageCmd() *cobra.Command {
	var (
		subject string
		body    string
		to      []string
		toNames []string
	)

	cmd := &cobra.Command{
		Use:     "message",
		Aliases: []string{"msg"},
		Short:   "Send a message to connections",
		Long: strings.TrimSpace(`
Send a message to one or more members by id. HTML in the subject and body
is stripped before sending. --body may be '-' to read stdin or @file.

--to-name looks a recipient up among your connections by name.
`),
		Example: strings.TrimSpace(`
  li message --to AbC123 --subject "Hello" --body "Good to meet you"
  li message --to AbC123,XyZ789 --subject "Notes" --body @notes.txt
  li message --to-name "Grace Hopper" --subject "Hi" --body -
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var recipients []string
			if len(to) > 0 {
				ids, err := validation.ParseRecipients(to)
				if err != nil {
					return &api.ArgumentError{Arg: "--to", Reason: err.Error()}
				}
				recipients = ids
			}
			if err := validation.ValidateSubject(subject); err != nil {
				return &api.ArgumentError{Arg: "--subject", Reason: err.Error()}
			}
			text, err := iocontext.ReadArg(cmdContext(cmd), body)
			if err != nil {
				return err
			}
			if err := validation.ValidateMessageContent(text); err != nil {
				return &api.ArgumentError{Arg: "--body", Reason: err.Error()}
			}

			client, err := newClientFactory().writer(cmdContext(cmd))
			if err != nil {
				return err
			}
			if len(toNames) > 0 {
				named, err := resolveMemberNames(cmdContext(cmd), client, toNames)
				if err != nil {
					return err
				}
				if recipients, err = validation.ParseRecipients(append(recipients, named...)); err != nil {
					return &api.ArgumentError{Arg: "--to-name", Reason: err.Error()}
				}
			}
			draft, err := client.DraftMessage(subject, text, recipients)
			if err != nil {
				return err
			}
			details := map[string]string{"recipients": strings.Join(recipients, ", "), "profile": client.profile}
			if previewed, err := maybeDryRun(cmd, client.Client, draft, details); previewed {
				return err
			}
			ok, err := client.Send(cmdContext(cmd), draft)
			if err != nil {
				return err
			}
			return printWriteOutcome(cmd, "message", ok, fmt.Sprintf("Message sent to %d recipient(s)", len(recipients)))
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Message subject")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Message body ('-' for stdin, @file)")
	cmd.Flags().StringSliceVar(&to, "to", nil, "Recipient member ids (comma-separated or repeatable)")
	cmd.Flags().StringArrayVar(&toNames, "to-name", nil, "Recipient connection name (repeatable)")
	cmd.MarkFlagsOneRequired("to", "to-name")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}
