package api

import (
	"errors"
	"net/http"

	"github.com/lildude/fitpal/internal/app"
	"github.com/lildude/fitpal/internal/fitness"
)

type profileResponse struct {
	Profile          fitness.UserProfile `json:"profile"`
	DailyCalorieGoal float64             `json:"dailyCalorieGoal"`
}

func (h *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var p fitness.UserProfile
	if !h.decode(w, r, &p) {
		return
	}
	if err := h.state.SaveProfile(r.Context(), p); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, profileResponse{Profile: p, DailyCalorieGoal: fitness.CalculateTDEE(p)})
}

func (h *Handler) handleClearProfile(w http.ResponseWriter, r *http.Request) {
	h.state.ClearProfile(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type mealRequest struct {
	Image         string             `json:"image"`
	TotalCalories float64            `json:"totalCalories"`
	Items         []fitness.FoodItem `json:"items"`
}

// handleAddMeal logs a meal. With ?analyze=true the image is sent to the coach
// and its analysis replaces any calories in the body.
func (h *Handler) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if !h.decode(w, r, &req) {
		return
	}

	meal := fitness.Meal{Image: req.Image, TotalCalories: req.TotalCalories, Items: req.Items}
	if r.URL.Query().Get("analyze") == "true" {
		if req.Image == "" {
			h.writeError(w, http.StatusBadRequest, "image is required for analysis")
			return
		}
		if !h.requireCoach(w) {
			return
		}
		analysis, err := h.coach.AnalyzeMeal(r.Context(), req.Image)
		if err != nil {
			h.writeCoachError(w, err)
			return
		}
		meal.TotalCalories = analysis.TotalCalories
		meal.Items = analysis.Items
	}
	if meal.Items == nil {
		meal.Items = []fitness.FoodItem{}
	}

	h.writeJSON(w, http.StatusCreated, h.state.AddMeal(r.Context(), meal))
}

type caloriesResponse struct {
	Goal   float64                 `json:"goal"`
	Today  float64                 `json:"today"`
	ByDate []fitness.DailyCalories `json:"byDate"`
}

func (h *Handler) handleCalories(w http.ResponseWriter, r *http.Request) {
	goal, err := h.state.DailyCalorieGoal()
	if err != nil {
		h.writeError(w, http.StatusConflict, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, caloriesResponse{
		Goal:   goal,
		Today:  h.state.TodayCalories(),
		ByDate: h.state.CaloriesByDate(),
	})
}

func (h *Handler) handleAddWorkout(w http.ResponseWriter, r *http.Request) {
	var l fitness.WorkoutLog
	if !h.decode(w, r, &l) {
		return
	}
	if l.Date != "" {
		if _, err := fitness.ParseDate(l.Date); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
	}
	h.writeJSON(w, http.StatusCreated, h.state.AddWorkoutLog(r.Context(), l))
}

func (h *Handler) handleAddWeight(w http.ResponseWriter, r *http.Request) {
	var e fitness.WeightLogEntry
	if !h.decode(w, r, &e) {
		return
	}
	if err := h.state.AddWeightEntry(r.Context(), e); err != nil {
		msg := err.Error()
		if !errors.Is(err, app.ErrInvalidWeight) {
			msg = "invalid date"
		}
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}
	h.writeJSON(w, http.StatusOK, h.state.Snapshot().WeightLog)
}
