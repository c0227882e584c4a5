package dashboardhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wayne-enterprises/bidash/internal/dashboard/export"
	"github.com/wayne-enterprises/bidash/internal/dashboard/ui"
	"github.com/wayne-enterprises/bidash/internal/pageload"
	"github.com/wayne-enterprises/bidash/internal/platform/httpx"
	"github.com/wayne-enterprises/bidash/internal/view"
)

const dashboardTemplate = "pages/dashboard.html"

// Starter launches the feed fetches of a page load.
type Starter interface {
	Start(ctx context.Context, id string) *pageload.Load
}

// Config tunes the dashboard handler.
type Config struct {
	Title           string
	Subtitle        string
	RenderWait      time.Duration
	LoadingRefresh  time.Duration
	RateLimit       int
	ShowPanelErrors bool
}

// Handler serves the dashboard pages.
type Handler struct {
	logger    *slog.Logger
	store     pageload.Store
	loader    Starter
	templates *view.Engine
	charts    ui.Charts
	cfg       Config
	csvPool   sync.Pool
	newID     func() string
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, store pageload.Store, loader Starter, templates *view.Engine, charts ui.Charts, cfg Config) *Handler {
	h := &Handler{
		logger:    logger,
		store:     store,
		loader:    loader,
		templates: templates,
		charts:    charts,
		cfg:       cfg,
		newID:     func() string { return uuid.NewString() },
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithIDGenerator overrides page-load ID generation for testing.
func (h *Handler) WithIDGenerator(fn func() string) {
	if fn != nil {
		h.newID = fn
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := h.newID()
	if err := h.store.Create(r.Context(), id); err != nil {
		h.handleServerError(w, "create page load", err)
		return
	}
	load := h.loader.Start(r.Context(), id)
	h.wait(r.Context(), load)
	h.render(w, r, id)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pageID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, id)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	id, ok := pageID(r)
	if !ok {
		httpx.RespondError(w, fmt.Errorf("page id %q: %w", chi.URLParam(r, "pageID"), httpx.ErrValidation))
		return
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, pageload.ErrNotFound) {
			httpx.RespondError(w, fmt.Errorf("page load %s: %w", id, httpx.ErrNotFound))
			return
		}
		h.logError("load page state", err)
		httpx.RespondError(w, err)
		return
	}
	snap := pageload.Decode(rec)
	httpx.JSON(w, http.StatusOK, struct {
		pageload.Snapshot
		Ready bool `json:"ready"`
	}{Snapshot: snap, Ready: snap.Ready()})
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := pageID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteSnapshot(buf, rec); err != nil {
		h.handleServerError(w, "write csv", err)
		return
	}

	filename := fmt.Sprintf("dashboard-%s.csv", id)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

// wait blocks until every fetch settled, RenderWait elapsed or the client left.
func (h *Handler) wait(ctx context.Context, load *pageload.Load) {
	if h.cfg.RenderWait <= 0 {
		return
	}
	timer := time.NewTimer(h.cfg.RenderWait)
	defer timer.Stop()
	select {
	case <-load.Done():
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	vm, err := ui.Build(pageload.Decode(rec), h.charts, ui.Options{ShowPanelErrors: h.cfg.ShowPanelErrors})
	if err != nil {
		h.handleServerError(w, "build view model", err)
		return
	}

	data := view.TemplateData{
		Title:       h.cfg.Title,
		Subtitle:    h.cfg.Subtitle,
		CurrentPath: r.URL.Path,
		Data:        vm,
	}
	if vm.Loading {
		if err := h.store.Touch(r.Context(), id); err != nil {
			h.logError("touch page load", err)
		}
		data.RefreshURL = pagePath(id)
		data.RefreshSeconds = refreshSeconds(h.cfg.LoadingRefresh)
		w.Header().Set("Cache-Control", "no-store")
	}
	if err := h.templates.Render(w, dashboardTemplate, data); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, pageload.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	h.handleServerError(w, "load page", err)
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}

func pageID(r *http.Request) (string, bool) {
	parsed, err := uuid.Parse(chi.URLParam(r, "pageID"))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func pagePath(id string) string {
	return "/pages/" + id
}

func refreshSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
