package cmd

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/outfmt"
)

func newConnectionsCmd() *cobra.Command {
	var start, count int

	cmd := &cobra.Command{
		Use:     "connections [MEMBER]",
		Aliases: []string{"conn"},
		Short:   "List a member's connections",
		Example: "  li connections --count 25\n  li connections --start 25 --count 25 -o json",
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

			client, err := newClientFactory().authenticated(cmdContext(cmd))
			if err != nil {
				return err
			}
			res, err := client.Connections(cmdContext(cmd), target, params)
			if err != nil {
				return err
			}
			return printResult(cmd, res, func(f *outfmt.Formatter, c *api.Connections) error {
				if len(c.People) == 0 {
					f.Empty("No connections found")
					return nil
				}
				if err := renderPeople(f, c.People); err != nil {
					return err
				}
				printPageFooter(cmd, c.Start, len(c.People), c.Total)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "Offset of the first result")
	cmd.Flags().IntVar(&count, "count", 0, "Number of results to return")

	return cmd
}

// singleTarget resolves an optional MEMBER argument.
func singleTarget(args []string) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	targets, err := profileTargets(args, nil, nil)
	if err != nil {
		return nil, err
	}
	return targets[0], nil
}

// pageParams builds start/count query parameters from the flags that were set.
func pageParams(cmd *cobra.Command, start, count int) (url.Values, error) {
	params := url.Values{}
	if cmd.Flags().Changed("start") {
		if start < 0 {
			return nil, &api.ArgumentError{Arg: "--start", Reason: "must be >= 0"}
		}
		params.Set("start", strconv.Itoa(start))
	}
	if cmd.Flags().Changed("count") {
		if count <= 0 {
			return nil, &api.ArgumentError{Arg: "--count", Reason: "must be a positive integer"}
		}
		params.Set("count", strconv.Itoa(count))
	}
	return params, nil
}

func printPageFooter(cmd *cobra.Command, start, n, total int) {
	if total <= n && start == 0 {
		return
	}
	printIfNotQuiet(cmd, "\nShowing %s of %d\n", fmt.Sprintf("%d-%d", start+1, start+n), total)
}
