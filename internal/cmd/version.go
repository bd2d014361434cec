package cmd

import (
	"encoding/xml"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/lnkd/linkedin-cli/internal/outfmt"
)

// version is set at build time via ldflags
var version = "dev"

type versionInfo struct {
	XMLName xml.Name `xml:"build-info" json:"-"`
	Version string   `xml:"version" json:"version"`
	Go      string   `xml:"go" json:"go"`
	OS      string   `xml:"os" json:"os"`
	Arch    string   `xml:"arch" json:"arch"`
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{Version: version, Go: runtime.Version(), OS: runtime.GOOS, Arch: runtime.GOARCH}
			if outfmt.IsStructured(cmdContext(cmd)) {
				return newFormatter(cmd).Output(info)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "linkedin-cli version %s (%s %s/%s)\n", info.Version, info.Go, info.OS, info.Arch)
			return err
		},
	}
}
