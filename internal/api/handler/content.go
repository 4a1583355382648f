package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecopilot/ecopilot-backend/internal/api/respond"
	"github.com/ecopilot/ecopilot-backend/internal/cache"
	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/jobs"
)

// ChallengesPreview is the selection for one date.
type ChallengesPreview struct {
	Date       string                 `json:"date"`
	Challenges []content.ContentEntry `json:"challenges"`
}

// TipPreview is the tip for one date.
type TipPreview struct {
	Date     string `json:"date"`
	ID       string `json:"id"`
	Tip      string `json:"tip"`
	Category string `json:"category"`
	Emoji    string `json:"emoji"`
}

// serveCached writes the cached body for key, or builds, caches and writes it.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, build func() (any, bool)) {
	ttl := cache.TTLDailyContent
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, ok := build()
	if !ok {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "No content for "+key)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

// GetChallenges previews the daily challenges for a date.
// @Summary Preview daily challenges
// @Description Returns the deterministic challenge selection for a date without persisting it. Responses carry an ETag.
// @Tags challenges
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD or today)"
// @Success 200 {object} ChallengesPreview
// @Success 304 "Not modified"
// @Failure 400 {object} respond.ErrorResponse
// @Router /challenges/{date} [get]
func (h *Handler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(chi.URLParam(r, "date"))
	if !ok {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidDate, "date must be YYYY-MM-DD")
		return
	}
	day := content.FormatDate(date)
	h.serveCached(w, r, "challenges:"+day, func() (any, bool) {
		dc := h.runner.PreviewChallenges(date)
		return ChallengesPreview{Date: dc.Date, Challenges: dc.Challenges}, true
	})
}

// GetTip previews the daily tip for a date.
// @Summary Preview daily tip
// @Description Returns the deterministic tip for a date without persisting it. Responses carry an ETag.
// @Tags tips
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD or today)"
// @Success 200 {object} TipPreview
// @Success 304 "Not modified"
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /tips/{date} [get]
func (h *Handler) GetTip(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(chi.URLParam(r, "date"))
	if !ok {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidDate, "date must be YYYY-MM-DD")
		return
	}
	day := content.FormatDate(date)
	h.serveCached(w, r, "tips:"+day, func() (any, bool) {
		tip, ok := h.runner.PreviewTip(date)
		if !ok {
			return nil, false
		}
		return TipPreview{Date: tip.Date, ID: tip.ID, Tip: tip.Tip, Category: tip.Category, Emoji: tip.Emoji}, true
	})
}

// GetTipPool returns tip catalog statistics.
// @Summary Tip pool statistics
// @Description Returns per-category counts of the tip catalog and the push tip catalog.
// @Tags tips
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /tips/pool [get]
func (h *Handler) GetTipPool(w http.ResponseWriter, r *http.Request) {
	catalog := h.runner.Catalog()
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"tips":       catalog.Tips.Stats(),
		"pushTips":   catalog.PushTips.Stats(),
		"challenges": catalog.Challenges.Stats(),
	})
}

// generateParams reads ?date=&days=.
func (h *Handler) generateParams(w http.ResponseWriter, r *http.Request, defaultDays int) (time.Time, int, bool) {
	from, ok := h.parseDate(r.URL.Query().Get("date"))
	if !ok {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidDate, "date must be YYYY-MM-DD")
		return time.Time{}, 0, false
	}
	days := defaultDays
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, respond.CodeBadRequest, "days must be an integer")
			return time.Time{}, 0, false
		}
		days = n
	}
	return from, days, true
}

// GenerateChallenges persists the daily challenges for a range of dates.
// @Summary Generate daily challenges
// @Description Computes and stores the challenge selection for date and the following days. Re-running overwrites with identical content.
// @Tags challenges
// @Produce json
// @Param date query string false "First date (YYYY-MM-DD, default today)"
// @Param days query int false "Number of days (default 1)"
// @Success 200 {object} jobs.Result
// @Failure 400 {object} respond.ErrorResponse
// @Router /challenges/generate [post]
func (h *Handler) GenerateChallenges(w http.ResponseWriter, r *http.Request) {
	from, days, ok := h.generateParams(w, r, 1)
	if !ok {
		return
	}
	res, out, err := h.runner.GenerateChallenges(r.Context(), from, days)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	respond.WriteJSONObject(w, statusFor(res), map[string]any{
		"result":     res,
		"challenges": out,
	})
}

// GenerateTips persists the daily tip for a range of dates.
// @Summary Generate daily tips
// @Description Computes and stores the tip for date and the following days.
// @Tags tips
// @Produce json
// @Param date query string false "First date (YYYY-MM-DD, default today)"
// @Param days query int false "Number of days (default 1)"
// @Success 200 {object} jobs.Result
// @Failure 400 {object} respond.ErrorResponse
// @Router /tips/generate [post]
func (h *Handler) GenerateTips(w http.ResponseWriter, r *http.Request) {
	from, days, ok := h.generateParams(w, r, 1)
	if !ok {
		return
	}
	res, out, err := h.runner.GenerateTips(r.Context(), from, days)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	respond.WriteJSONObject(w, statusFor(res), map[string]any{
		"result": res,
		"tips":   out,
	})
}

// statusFor is 207 when a job finished with per-item errors.
func statusFor(res jobs.Result) int {
	if len(res.Errors) > 0 {
		return http.StatusMultiStatus
	}
	return http.StatusOK
}
