package cli

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wayne-enterprises/bidash/internal/app"
	"github.com/wayne-enterprises/bidash/internal/pageload"
)

// loadOnce performs a single page load against the configured API and waits
// for every feed to settle.
func loadOnce(ctx context.Context, cfg *app.Config, logger *slog.Logger) (pageload.Snapshot, error) {
	store := pageload.NewMemoryStore(cfg.PageTTL)
	id := uuid.NewString()
	if err := store.Create(ctx, id); err != nil {
		return pageload.Snapshot{}, err
	}

	loader := pageload.NewLoader(app.NewFeedClient(cfg), store, logger, nil, cfg.FetchTimeout)
	load := loader.Start(ctx, id)
	select {
	case <-load.Done():
	case <-ctx.Done():
		return pageload.Snapshot{}, ctx.Err()
	}

	rec, err := store.Get(ctx, id)
	if err != nil {
		return pageload.Snapshot{}, err
	}
	return pageload.Decode(rec), nil
}
