// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/okian/activities/internal/domain/model"
)

var errMissingEmail = errors.New("email query parameter is required")

// ActivitiesHandler serves the activity listing and participant mutations.
type ActivitiesHandler struct {
	deps Dependencies
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps Dependencies) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps}
}

// HandleList handles GET /activities.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all := h.deps.List(r.Context())
	out := make(map[string]model.ActivityView, len(all))
	for name, a := range all {
		out[name] = a.View()
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /activities/{name}.
func (h *ActivitiesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_activity"
	a, err := h.deps.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a.View())
}

// HandleSignup handles POST /activities/{name}/signup?email=...
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.signup"
	email, ok := emailParam(r)
	if !ok {
		writeError(w, WrapKind(op, ErrUnprocessable, errMissingEmail))
		return
	}
	msg, err := h.deps.Signup(r.Context(), r.PathValue("name"), email)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// HandleUnregister handles DELETE /activities/{name}/unregister?email=...
func (h *ActivitiesHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	const op = "api.unregister"
	email, ok := emailParam(r)
	if !ok {
		writeError(w, WrapKind(op, ErrUnprocessable, errMissingEmail))
		return
	}
	msg, err := h.deps.Unregister(r.Context(), r.PathValue("name"), email)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// emailParam returns the raw email query value. Only presence is checked;
// the value is compared verbatim against registered emails.
func emailParam(r *http.Request) (string, bool) {
	q := r.URL.Query()
	if !q.Has("email") {
		return "", false
	}
	return q.Get("email"), true
}
