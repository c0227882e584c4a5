package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wayne-enterprises/bidash/internal/feed"
	"github.com/wayne-enterprises/bidash/internal/pageload"
	"github.com/wayne-enterprises/bidash/internal/platform/cache"
)

// NewPageStore builds the page-load store selected by PAGE_STORE. The returned
// close function releases the Redis connection when one was opened.
func NewPageStore(ctx context.Context, cfg *Config) (pageload.Store, func() error, error) {
	switch cfg.PageStore {
	case StoreRedis:
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return pageload.NewRedisStore(client, cfg.PageTTL), client.Close, nil
	case StoreMemory, "":
		return pageload.NewMemoryStore(cfg.PageTTL), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown page store %q", cfg.PageStore)
	}
}

// NewFeedClient builds the upstream client. The HTTP client itself carries no
// timeout; each fetch is bounded by FETCH_TIMEOUT through its context.
func NewFeedClient(cfg *Config) *feed.Client {
	return feed.NewClient(cfg.APIBaseURL, &http.Client{Transport: http.DefaultTransport})
}
