package api

import (
	"net/http"

	"github.com/lildude/fitpal/internal/coach"
	"github.com/lildude/fitpal/internal/fitness"
)

type planResponse struct {
	Plan fitness.ActiveWorkoutPlan `json:"plan"`
	// MissingImages lists exercises the user should upload a picture for.
	MissingImages []string `json:"missingImages"`
}

func newPlanResponse(p fitness.ActiveWorkoutPlan) planResponse {
	seen := map[string]bool{}
	missing := []string{}
	for _, d := range p.Days {
		for _, ex := range d.Exercises {
			if ex.ImageURL == "" && !seen[ex.Name] {
				seen[ex.Name] = true
				missing = append(missing, ex.Name)
			}
		}
	}
	return planResponse{Plan: p, MissingImages: missing}
}

func (h *Handler) handleSetPlan(w http.ResponseWriter, r *http.Request) {
	var p fitness.ActiveWorkoutPlan
	if !h.decode(w, r, &p) {
		return
	}
	if p.Title == "" {
		h.writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	h.writeJSON(w, http.StatusOK, newPlanResponse(h.state.SetActivePlan(r.Context(), p)))
}

func (h *Handler) handleClearPlan(w http.ResponseWriter, r *http.Request) {
	h.state.ClearActivePlan(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type generatePlanRequest struct {
	Category string `json:"category"`
	Prompt   string `json:"prompt"`
}

// handleGeneratePlan asks the coach for a structured plan, from a library
// category or a free prompt, and makes it the active plan.
func (h *Handler) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if !h.decode(w, r, &req) {
		return
	}
	prompt := req.Prompt
	if req.Category != "" {
		p, ok := coach.CategoryPrompt(req.Category)
		if !ok {
			h.writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		prompt = p
	}
	if prompt == "" {
		h.writeError(w, http.StatusBadRequest, "category or prompt is required")
		return
	}
	if !h.requireCoach(w) {
		return
	}

	plan, err := h.coach.GenerateStructuredPlan(r.Context(), prompt)
	if err != nil {
		h.writeCoachError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newPlanResponse(h.state.SetActivePlan(r.Context(), plan)))
}

type plannerRequest struct {
	Prompt   string `json:"prompt"`
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

type plannerResponse struct {
	Plan string `json:"plan"`
}

func (h *Handler) handlePlanner(w http.ResponseWriter, r *http.Request) {
	var req plannerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Prompt == "" {
		h.writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if !h.requireCoach(w) {
		return
	}

	plan, err := h.coach.GenerateWorkoutPlan(r.Context(), req.Prompt, req.Image, req.MimeType)
	if err != nil {
		h.writeCoachError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plannerResponse{Plan: plan})
}

type exerciseImageRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

func (h *Handler) handleExerciseImage(w http.ResponseWriter, r *http.Request) {
	var req exerciseImageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.ImageURL == "" {
		h.writeError(w, http.StatusBadRequest, "name and imageUrl are required")
		return
	}
	h.state.UpdateExerciseImage(r.Context(), req.Name, req.ImageURL)
	w.WriteHeader(http.StatusNoContent)
}
