package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapshotCommand(rt *session) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run one page load and print the KPI cards and feed status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadOnce(cmd.Context(), rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			_, err = fmt.Fprintln(out, renderSnapshot(rt.cfg.DashboardTitle, snap))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the decoded snapshot as JSON")
	return cmd
}
