package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/mockapi"
)

type Mock struct {
	svc     *mockapi.Service
	maxBody int64
}

func NewMock(svc *mockapi.Service, maxBody int64) *Mock {
	return &Mock{svc: svc, maxBody: maxBody}
}

// Search handles POST /api/search.
func (h *Mock) Search(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r)

	var req mockapi.SearchRequest
	if err := decodeBody(w, r, h.maxBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Search(r.Context(), req)
	if err != nil {
		h.fail(w, reqID, "search", err)
		return
	}

	logger.Infow("search served", "req_id", reqID, "query", resp.Query, "total", resp.Total)
	writeJSON(w, http.StatusOK, resp)
}

// Translate handles POST /api/translate.
func (h *Mock) Translate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r)

	var req mockapi.TranslateRequest
	if err := decodeBody(w, r, h.maxBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Translate(r.Context(), req)
	if err != nil {
		h.fail(w, reqID, "translate", err)
		return
	}

	logger.Infow("translation served", "req_id", reqID, "target", resp.TargetLanguage)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Mock) fail(w http.ResponseWriter, reqID, op string, err error) {
	var verr *mockapi.ValidationError
	if errors.As(err, &verr) {
		logger.Infow("rejected request", "req_id", reqID, "op", op, "field", verr.Field)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Field: verr.Field})
		return
	}
	logger.Errorw("request failed", "req_id", reqID, "op", op, "err", err)
	writeError(w, http.StatusServiceUnavailable, op+" unavailable")
}
