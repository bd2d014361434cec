package cmd

import (
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/cli"
	"github.com/lnkd/linkedin-cli/internal/iocontext"
	"github.com/lnkd/linkedin-cli/internal/outfmt"
	"github.com/lnkd/linkedin-cli/internal/validation"
)

func newNetworkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "network",
		Aliases: []string{"net"},
		Short:   "Read and post network updates",
	}

	cmd.AddCommand(newNetworkActivitiesCmd())
	cmd.AddCommand(newNetworkUpdateCmd())

	return groupCmd(cmd)
}

func newNetworkActivitiesCmd() *cobra.Command {
	var (
		types  []string
		start  int
		count  int
		after  string
		before string
	)

	cmd := &cobra.Command{
		Use:     "activities [MEMBER]",
		Aliases: []string{"updates"},
		Short:   "List recent network updates",
		Example: strings.TrimSpace(`
  li network activities --type STAT --type PROF --count 20
  li network activities --after "3d ago" --before yesterday
`),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := singleTarget(args)
			if err != nil {
				return err
			}
			params, err := pageParams(cmd, start, count)
			if err != nil {
				return err
			}
			for _, t := range types {
				if t = strings.TrimSpace(t); t != "" {
					params.Add("type", strings.ToUpper(t))
				}
			}
			if err := timeRangeParams(params, after, before, time.Now()); err != nil {
				return err
			}

			client, err := newClientFactory().authenticated(cmdContext(cmd))
			if err != nil {
				return err
			}
			res, err := client.NetworkActivities(cmdContext(cmd), target, params)
			if err != nil {
				return err
			}
			return printResult(cmd, res, func(f *outfmt.Formatter, u *api.Updates) error {
				if len(u.Items) == 0 {
					f.Empty("No updates found")
					return nil
				}
				f.StartTable([]string{"TIME", "TYPE", "MEMBER", "STATUS"})
				for _, item := range u.Items {
					var member, status string
					if item.Person != nil {
						member = item.Person.Name()
						status = item.Person.CurrentStatus
					}
					f.Row(formatTimestamp(item.Time()), item.UpdateType, member, status)
				}
				return f.EndTable()
			})
		},
	}

	cmd.Flags().StringSliceVar(&types, "type", nil, "Update type filter, e.g. STAT, PROF, CONN (repeatable)")
	cmd.Flags().IntVar(&start, "start", 0, "Offset of the first update")
	cmd.Flags().IntVar(&count, "count", 0, "Number of updates to return")
	cmd.Flags().StringVar(&after, "after", "", "Only updates after this time (e.g. 2h ago, yesterday, 2025-01-31)")
	cmd.Flags().StringVar(&before, "before", "", "Only updates before this time")

	return cmd
}

func newNetworkUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update TEXT",
		Short: "Post an update to your network",
		Long:  "Post an activity visible to your connections. TEXT may be '-' for stdin or @file.",
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
			draft, err := client.DraftNetworkUpdate(text)
			if err != nil {
				return err
			}
			if previewed, err := maybeDryRun(cmd, client.Client, draft, map[string]string{"profile": client.profile}); previewed {
				return err
			}
			ok, err := client.Send(cmdContext(cmd), draft)
			if err != nil {
				return err
			}
			return printWriteOutcome(cmd, "network update", ok, "Network update posted")
		},
	}
}

// timeRangeParams sets the epoch-millisecond after/before filters.
func timeRangeParams(params url.Values, after, before string, now time.Time) error {
	var from, to time.Time
	if after != "" {
		t, err := cli.ParsePastTime(after, now)
		if err != nil {
			return &api.ArgumentError{Arg: "--after", Reason: err.Error()}
		}
		from = t
		params.Set("after", cli.EpochMillis(t))
	}
	if before != "" {
		t, err := cli.ParsePastTime(before, now)
		if err != nil {
			return &api.ArgumentError{Arg: "--before", Reason: err.Error()}
		}
		to = t
		params.Set("before", cli.EpochMillis(t))
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return &api.ArgumentError{Arg: "--after", Reason: "must be earlier than --before"}
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
