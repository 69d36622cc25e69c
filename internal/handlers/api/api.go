// Package api exposes the application state over a small JSON HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lildude/fitpal/internal/achievements"
	"github.com/lildude/fitpal/internal/app"
	"github.com/lildude/fitpal/internal/coach"
	"github.com/lildude/fitpal/internal/integration"
	"github.com/lildude/fitpal/internal/middleware"
	"github.com/sirupsen/logrus"
)

// Handler serves the API. coach may be nil when no AI key is configured.
type Handler struct {
	state *app.State
	coach *coach.Client
	conn  *integration.Connector
	log   logrus.FieldLogger
}

func NewHandler(st *app.State, c *coach.Client, conn *integration.Connector, log logrus.FieldLogger) *Handler {
	return &Handler{state: st, coach: c, conn: conn, log: log}
}

// NewRouter returns a router with every route and the shared middleware.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.PanicRecovery(h.log), middleware.LogRequest(h.log))
	h.SetupRoutes(router)
	return router
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/state", h.handleState).Methods("GET").Name("state")
	router.HandleFunc("/profile", h.handleSaveProfile).Methods("PUT").Name("save-profile")
	router.HandleFunc("/profile", h.handleClearProfile).Methods("DELETE").Name("clear-profile")
	router.HandleFunc("/categories", h.handleCategories).Methods("GET").Name("categories")
	router.HandleFunc("/integration", h.handleConnect).Methods("POST").Name("connect")
	router.HandleFunc("/integration", h.handleDisconnect).Methods("DELETE").Name("disconnect")
	router.HandleFunc("/integration/callback", h.handleCallback).Methods("GET").Name("integration-callback")

	// Everything else needs a profile first.
	gated := router.NewRoute().Subrouter()
	gated.Use(middleware.RequireProfile(h.state))
	gated.HandleFunc("/meals", h.handleAddMeal).Methods("POST").Name("add-meal")
	gated.HandleFunc("/calories", h.handleCalories).Methods("GET").Name("calories")
	gated.HandleFunc("/workouts", h.handleAddWorkout).Methods("POST").Name("add-workout")
	gated.HandleFunc("/weight", h.handleAddWeight).Methods("POST").Name("add-weight")
	gated.HandleFunc("/plan", h.handleSetPlan).Methods("PUT").Name("set-plan")
	gated.HandleFunc("/plan", h.handleClearPlan).Methods("DELETE").Name("clear-plan")
	gated.HandleFunc("/plan/generate", h.handleGeneratePlan).Methods("POST").Name("generate-plan")
	gated.HandleFunc("/planner", h.handlePlanner).Methods("POST").Name("planner")
	gated.HandleFunc("/exercises/image", h.handleExerciseImage).Methods("PUT").Name("exercise-image")
	gated.HandleFunc("/achievements", h.handleAchievements).Methods("GET").Name("achievements")
	gated.HandleFunc("/coach/messages", h.handleChatHistory).Methods("GET").Name("chat-history")
	gated.HandleFunc("/coach/messages", h.handleClearChat).Methods("DELETE").Name("clear-chat")
	gated.HandleFunc("/coach/messages", h.handleSendMessage).Methods("POST").Name("send-message")
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("unable to write response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

// writeCoachError reports a failed AI call. Nothing has been changed by then.
func (h *Handler) writeCoachError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, coach.ErrNotConfigured) {
		status = http.StatusServiceUnavailable
	}
	h.log.WithError(err).Warn("AI request failed")
	h.writeError(w, status, coach.UserMessage(err))
}

func (h *Handler) requireCoach(w http.ResponseWriter) bool {
	if h.coach == nil {
		h.writeCoachError(w, coach.ErrNotConfigured)
		return false
	}
	return true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.log.WithError(err).Debug("unable to decode request body")
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.state.Snapshot())
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, coach.Categories)
}

// icons maps each achievement to its badge asset. Locked entries show the trophy.
var icons = map[achievements.ID]string{
	achievements.FirstWorkout:     "first-workout",
	achievements.ConsistentWeek:   "consistent-week",
	achievements.CalorieConscious: "calorie-conscious",
	achievements.PRBreaker:        "pr-breaker",
}

const lockedIcon = "trophy"

type achievementResponse struct {
	achievements.Achievement
	Icon string `json:"icon"`
}

func (h *Handler) handleAchievements(w http.ResponseWriter, r *http.Request) {
	list := h.state.Snapshot().Achievements
	resp := make([]achievementResponse, 0, len(list))
	for _, a := range list {
		icon := lockedIcon
		if a.Unlocked {
			if i, ok := icons[a.ID]; ok {
				icon = i
			}
		}
		resp = append(resp, achievementResponse{Achievement: a, Icon: icon})
	}
	h.writeJSON(w, http.StatusOK, resp)
}
