package handler

import (
	"net/http"

	"github.com/ecopilot/ecopilot-backend/internal/api/respond"
	"github.com/ecopilot/ecopilot-backend/internal/notifications"
)

// CheckStreak runs the streak warning for one user.
// @Summary Manual streak check
// @Description Sends the streak warning to one user unless they already completed the day's challenges.
// @Tags admin
// @Produce json
// @Param userId query string true "User id"
// @Param date query string false "Date (YYYY-MM-DD, default today)"
// @Success 200 {object} jobs.StreakCheck
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /streaks/check [post]
func (h *Handler) CheckStreak(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeBadRequest, "userId query parameter is required")
		return
	}
	date, ok := h.parseDate(r.URL.Query().Get("date"))
	if !ok {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidDate, "date must be YYYY-MM-DD")
		return
	}
	check, err := h.runner.CheckStreak(r.Context(), userID, date)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, check)
}

// ReplayMilestone runs the detector for an arbitrary transition.
// @Summary Replay milestone detection
// @Description Runs the milestone detector for one metric. With a userId the detected notification is delivered.
// @Tags admin
// @Accept json
// @Produce json
// @Param replay body notifications.Replay true "Metric and values"
// @Success 200 {object} notifications.ReplayResult
// @Failure 400 {object} respond.ErrorResponse
// @Router /replay/milestone [post]
func (h *Handler) ReplayMilestone(w http.ResponseWriter, r *http.Request) {
	var req notifications.Replay
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.pipeline.HandleReplay(r.Context(), req)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, res)
}

// BroadcastRequest is the body of a broadcast.
type BroadcastRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category,omitempty"`
}

// Broadcast sends an announcement to every user with a push token.
// @Summary Broadcast notification
// @Description Persists and pushes one announcement per user with a registered device.
// @Tags admin
// @Accept json
// @Produce json
// @Param broadcast body BroadcastRequest true "Announcement"
// @Success 200 {object} jobs.Result
// @Failure 400 {object} respond.ErrorResponse
// @Router /notifications/broadcast [post]
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.runner.Broadcast(r.Context(), req.Title, req.Body, req.Category)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	respond.WriteJSONObject(w, statusFor(res), res)
}
