package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/offline"
	"github.com/MrSnakeDoc/gompa/internal/store"
)

// Offline exposes the offline cache manager to the UI layer.
type Offline struct {
	m *offline.Manager
	// ctx outlives single requests: a populate keeps running after the
	// request that started it returns.
	ctx context.Context
}

func NewOffline(ctx context.Context, m *offline.Manager) *Offline {
	return &Offline{m: m, ctx: ctx}
}

type statusBody struct {
	Online      bool                     `json:"online"`
	HasSnapshot bool                     `json:"hasSnapshot"`
	Stale       bool                     `json:"stale"`
	LastUpdated int64                    `json:"lastUpdated,omitempty"`
	Populate    offline.Status           `json:"populate"`
	Counts      map[offline.Category]int `json:"counts,omitempty"`
	Downloads   []offline.DownloadEntry  `json:"downloads"`
}

// Status handles GET /api/offline/status.
func (h *Offline) Status(w http.ResponseWriter, _ *http.Request) {
	body := statusBody{
		Online:    h.m.Online(),
		Populate:  h.m.Status(),
		Stale:     h.m.Stale(time.Now()),
		Downloads: h.m.Downloads(),
	}
	if ds, ok := h.m.Snapshot(); ok {
		body.HasSnapshot = true
		body.LastUpdated = ds.LastUpdated
		body.Counts = ds.Counts()
	}
	writeJSON(w, http.StatusOK, body)
}

// Populate handles POST /api/offline/populate. The run continues in the
// background; clients poll Status for progress.
func (h *Offline) Populate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r)

	done, err := h.m.Start(h.ctx, func(p offline.Progress) {
		logger.Debug("populate %s: %d%%", p.Category, p.Percent)
	})
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	go func() {
		if err := <-done; err != nil {
			logger.Errorw("populate failed", "req_id", reqID, "err", err)
			return
		}
		logger.Infow("populate finished", "req_id", reqID)
	}()

	writeJSON(w, http.StatusAccepted, h.m.Status())
}

// Category handles GET /api/offline/{category}.
func (h *Offline) Category(w http.ResponseWriter, r *http.Request) {
	c, err := offline.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.m.Category(c))
}

// Download handles POST /api/offline/download/{label}.
func (h *Offline) Download(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r)
	label := r.PathValue("label")

	if err := h.m.Download(r.Context(), label); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, offline.ErrEmptyLabel) || errors.Is(err, store.ErrInvalidKey) {
			status = http.StatusBadRequest
		}
		logger.Errorw("download failed", "req_id", reqID, "label", label, "err", err)
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"label": label})
}
