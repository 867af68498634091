/*
Copyright © 2025 UnluckyForSome
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/UnluckyForSome/artdex/pkg/buildinfo"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE:  runVersionCmd,
	}
	cmd.Flags().Bool("extended", false, "Show build and platform details")
	cmd.Flags().Bool("json", false, "Output version information in JSON format")
	return cmd
}

func runVersionCmd(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if jsonOutput {
		info := map[string]string{
			"version":       buildinfo.BinaryVersion,
			"moduleVersion": buildinfo.ModuleVersion(),
			"goVersion":     runtime.Version(),
			"platform":      runtime.GOOS,
			"arch":          runtime.GOARCH,
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "artdex %s\n", buildinfo.BinaryVersion)
	if extended {
		fmt.Fprintf(out, "  module:   %s\n", buildinfo.ModuleVersion())
		fmt.Fprintf(out, "  go:       %s\n", runtime.Version())
		fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}
	return nil
}
