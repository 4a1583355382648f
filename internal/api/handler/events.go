package handler

import (
	"net/http"

	"github.com/ecopilot/ecopilot-backend/internal/api/respond"
	"github.com/ecopilot/ecopilot-backend/internal/notifications"
)

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := respond.DecodeJSON(r, v); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, respond.CodeBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

// UserUpdated handles a users/{uid} change.
// @Summary User document updated
// @Description Detects streak, points and rank transitions between the before and after snapshots and delivers one notification per transition.
// @Tags events
// @Accept json
// @Produce json
// @Param event body notifications.UserUpdated true "Before and after snapshots"
// @Success 200 {object} notifications.BatchResult
// @Failure 400 {object} respond.ErrorResponse
// @Router /events/user-updated [post]
func (h *Handler) UserUpdated(w http.ResponseWriter, r *http.Request) {
	var ev notifications.UserUpdated
	if !h.decode(w, r, &ev) {
		return
	}
	res, err := h.pipeline.HandleUserUpdated(r.Context(), ev)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, res)
}

// ProductScanned handles the creation of users/{uid}/scannedProducts/{pid}.
// @Summary Product scanned
// @Description Delivers eco-score feedback for a newly scanned product.
// @Tags events
// @Accept json
// @Produce json
// @Param event body notifications.ProductScanned true "Scanned product"
// @Success 200 {object} notifications.Outcome
// @Failure 400 {object} respond.ErrorResponse
// @Router /events/product-scanned [post]
func (h *Handler) ProductScanned(w http.ResponseWriter, r *http.Request) {
	var ev notifications.ProductScanned
	if !h.decode(w, r, &ev) {
		return
	}
	out, err := h.pipeline.HandleProductScanned(r.Context(), ev)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, out)
}

// UserChallengeUpdated handles a user_challenges/{uid}-{date} change.
// @Summary User challenge updated
// @Description Advances the user's streak when all challenges of the day flip to completed.
// @Tags events
// @Accept json
// @Produce json
// @Param event body notifications.UserChallengeUpdated true "Before and after snapshots"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /events/user-challenge-updated [post]
func (h *Handler) UserChallengeUpdated(w http.ResponseWriter, r *http.Request) {
	var ev notifications.UserChallengeUpdated
	if !h.decode(w, r, &ev) {
		return
	}
	user, changed, err := h.pipeline.HandleUserChallengeUpdated(r.Context(), ev)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	body := map[string]any{"changed": changed}
	if changed {
		body["userId"] = user.ID
		body["streak"] = user.StreakValue()
		body["lastChallengeDate"] = user.LastChallengeDate
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}
