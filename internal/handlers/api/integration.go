package api

import (
	"errors"
	"net/http"

	"github.com/lildude/fitpal/internal/integration"
)

type connectResponse struct {
	Connected bool   `json:"connected"`
	AuthURL   string `json:"authUrl,omitempty"`
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	u, err := h.conn.Connect(r.Context())
	if err != nil {
		h.log.WithError(err).Error("unable to connect honor health")
		h.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	h.writeJSON(w, http.StatusOK, connectResponse{Connected: u == "", AuthURL: u})
}

func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	h.conn.Disconnect(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleCallback finishes the OAuth flow started by handleConnect.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		h.log.WithError(err).Error("unable to parse form")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !h.conn.ValidState(r.Form.Get("state")) {
		http.Error(w, integration.ErrInvalidState.Error(), http.StatusBadRequest)
		return
	}

	err = h.conn.Complete(r.Context(), r.Form.Get("code"))
	switch {
	case errors.Is(err, integration.ErrMissingCode):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, integration.ErrNotConfigured):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		h.log.WithError(err).Error("token exchange failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/state", http.StatusFound)
}
