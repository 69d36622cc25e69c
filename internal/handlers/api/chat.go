package api

import (
	"io"
	"net/http"

	"github.com/lildude/fitpal/internal/coach"
	"github.com/lildude/fitpal/internal/fitness"
)

// handleChatHistory returns the transcript. An empty transcript is opened
// with the coach's introduction, which is stored on success.
func (h *Handler) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	if len(snap.ChatHistory) > 0 || h.coach == nil {
		h.writeJSON(w, http.StatusOK, snap.ChatHistory)
		return
	}

	chat := h.coach.StartChat(coach.SystemInstruction(snap, h.state.Now()), nil)
	reply, err := chat.Send(r.Context(), coach.IntroPrompt, nil)
	if err != nil {
		h.log.WithError(err).Warn("unable to fetch coach introduction")
		h.writeJSON(w, http.StatusOK, []fitness.ChatMessage{fitness.NewChatMessage(fitness.RoleModel, coach.Greeting)})
		return
	}
	intro := fitness.NewChatMessage(fitness.RoleModel, reply)
	h.state.AppendChat(r.Context(), intro)
	h.writeJSON(w, http.StatusOK, []fitness.ChatMessage{intro})
}

func (h *Handler) handleClearChat(w http.ResponseWriter, r *http.Request) {
	h.state.ClearChat(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// handleSendMessage streams the coach's reply as plain text. The exchange is
// only added to the transcript once the reply is complete.
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Message == "" {
		h.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if !h.requireCoach(w) {
		return
	}

	snap := h.state.Snapshot()
	chat := h.coach.StartChat(coach.SystemInstruction(snap, h.state.Now()), snap.ChatHistory)

	flusher, _ := w.(http.Flusher)
	started := false
	reply, err := chat.Send(r.Context(), req.Message, func(chunk string) {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			h.log.WithError(err).Debug("client went away")
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	})
	if err != nil {
		if !started {
			h.writeCoachError(w, err)
			return
		}
		h.log.WithError(err).Warn("chat stream interrupted")
		io.WriteString(w, "\n\n"+coach.UserMessage(err)) //nolint:errcheck
		return
	}

	h.state.AppendChat(r.Context(),
		fitness.NewChatMessage(fitness.RoleUser, req.Message),
		fitness.NewChatMessage(fitness.RoleModel, reply),
	)
	if !started {
		w.WriteHeader(http.StatusOK)
	}
}
