// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// RootHandler redirects the bare root to the landing page.
type RootHandler struct {
	target string
}

// NewRootHandler creates a root handler redirecting to target.
func NewRootHandler(target string) *RootHandler {
	return &RootHandler{target: target}
}

// HandleRoot handles GET / with a temporary redirect.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.target, http.StatusTemporaryRedirect)
}
