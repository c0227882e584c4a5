package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wayne-enterprises/bidash/internal/feed"
	"github.com/wayne-enterprises/bidash/internal/platform/cache"
	"github.com/wayne-enterprises/bidash/jobs"
)

func newProbeCommand(rt *session) *cobra.Command {
	var feeds []string
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Enqueue an upstream probe for the worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range feeds {
				if _, err := feed.ParseSlot(name); err != nil {
					return err
				}
			}
			client := jobs.NewClient(cache.AsynqOpt(rt.cfg.RedisAddr))
			defer func() { _ = client.Close() }()

			info, err := client.EnqueueUpstreamProbe(cmd.Context(), jobs.UpstreamProbePayload{Feeds: feeds})
			if err != nil {
				return fmt.Errorf("enqueue probe: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s on %s (id %s)\n", info.Type, info.Queue, info.ID)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&feeds, "feed", nil, "feed to probe, repeatable (default all)")
	return cmd
}
