package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/iocontext"
	"github.com/lnkd/linkedin-cli/internal/validation"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Manage your current status",
	}
	cmd.AddCommand(newStatusSetCmd())
	return groupCmd(cmd)
}

func newStatusSetCmd() *cobra.Command {
	var twitter bool

	cmd := &cobra.Command{
		Use:   "set TEXT",
		Short: "Replace your current status",
		Long:  "Replace your current status. TEXT may be '-' for stdin or @file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := iocontext.ReadArg(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			if err := validation.ValidateStatus(text); err != nil {
				return &api.ArgumentError{Arg: "TEXT", Reason: err.Error()}
			}

			client, err := newClientFactory().writer(cmdContext(cmd))
			if err != nil {
				return err
			}
			draft, err := client.DraftStatusUpdate(text, twitter)
			if err != nil {
				return err
			}
			var warnings []string
			if twitter {
				warnings = append(warnings, "The status is also posted to the linked Twitter account")
			}
			if previewed, err := maybeDryRun(cmd, client.Client, draft, map[string]string{"profile": client.profile}, warnings...); previewed {
				return err
			}
			ok, err := client.Send(cmdContext(cmd), draft)
			if err != nil {
				return err
			}
			return printWriteOutcome(cmd, "status update", ok, "Status updated")
		},
	}

	cmd.Flags().BoolVar(&twitter, "twitter", false, "Also post the status to the linked Twitter account")

	return cmd
}
