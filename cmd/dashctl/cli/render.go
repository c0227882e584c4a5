package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wayne-enterprises/bidash/internal/dashboard/ui"
	"github.com/wayne-enterprises/bidash/internal/view"
)

func newRenderCommand(rt *session) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run one page load and write the dashboard HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadOnce(cmd.Context(), rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			vm, err := ui.Build(snap, ui.SVGCharts(), ui.Options{ShowPanelErrors: rt.cfg.ShowPanelErrors})
			if err != nil {
				return err
			}
			engine, err := view.NewEngine()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			data := view.TemplateData{
				Title:       rt.cfg.DashboardTitle,
				Subtitle:    rt.cfg.DashboardSubtitle,
				CurrentPath: "/",
				Data:        vm,
			}
			if err := engine.Execute(w, "pages/dashboard.html", data); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if vm.Loading {
				return errors.New("render: gating feeds unavailable, wrote loading placeholder")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write HTML to this file instead of stdout")
	return cmd
}
