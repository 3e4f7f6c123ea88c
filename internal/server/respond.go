package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"artbid/internal/app"
	"artbid/internal/util"
)

// envelope is the uniform response shape: {success, message?, data?},
// with token/user added at the top level for guest-bid and login flows.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
	User    any    `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// writeAppError maps an application error to a status code and a
// client-visible message. Unexpected errors are logged and collapsed to
// the generic fallback so internals never leak.
func writeAppError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var belowBase *app.BidBelowBaseError
	var notHighEnough *app.BidNotHighEnoughError
	switch {
	case errors.Is(err, app.ErrUnauthenticated),
		errors.Is(err, app.ErrInvalidToken),
		errors.Is(err, app.ErrUnknownSubject),
		errors.Is(err, app.ErrInvalidCredentials):
		writeFailure(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrNotAdmin):
		writeFailure(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrPaintingNotFound),
		errors.Is(err, app.ErrPaintingNotAvailable),
		errors.Is(err, app.ErrUserNotFound):
		writeFailure(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrInvalidMobile),
		errors.Is(err, app.ErrNameRequired),
		errors.Is(err, app.ErrInvalidBidAmount),
		errors.Is(err, app.ErrNoActiveAuction),
		errors.Is(err, app.ErrAuctionNotStarted),
		errors.Is(err, app.ErrAuctionEnded),
		errors.Is(err, app.ErrPaintingNotBiddable),
		errors.Is(err, app.ErrMobileTaken),
		errors.Is(err, app.ErrInvalidAuctionWindow),
		errors.As(err, &belowBase),
		errors.As(err, &notHighEnough):
		writeFailure(w, http.StatusBadRequest, err.Error())
	default:
		util.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
		writeFailure(w, http.StatusInternalServerError, fallback)
	}
}
