package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lildude/fitpal/internal/app"
	"github.com/lildude/fitpal/internal/fitness"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "test",
		"choices": []any{map[string]any{
			"index": 0, "finish_reason": "stop",
			"message": map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

// server answers every request with body and records the last request payload.
func server(t *testing.T, status int, body string) (*Client, *map[string]any) {
	t.Helper()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		got = nil
		_ = json.Unmarshal(raw, &got)
		if strings.HasPrefix(body, "data:") {
			w.Header().Set("Content-Type", "text/event-stream")
		} else {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	log, _ := logtest.NewNullLogger()
	c, err := New(Config{APIKey: "test", BaseURL: srv.URL + "/", Model: "test-model", PlanModel: "plan-model"}, log)
	require.NoError(t, err)
	return c, &got
}

func TestNewRequiresKey(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	_, err := New(Config{}, log)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAnalyzeMeal(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    fitness.MealAnalysis
		wantErr error
	}{
		{
			name:    "valid",
			content: `{"totalCalories":550,"items":[{"name":"Pasta","calories":400,"grams":200},{"name":"Salad","calories":150,"grams":120}]}`,
			want: fitness.MealAnalysis{TotalCalories: 550, Items: []fitness.FoodItem{
				{Name: "Pasta", Calories: 400, Grams: 200}, {Name: "Salad", Calories: 150, Grams: 120},
			}},
		},
		{
			name:    "fenced",
			content: "```json\n{\"totalCalories\":0,\"items\":[]}\n```",
			want:    fitness.MealAnalysis{TotalCalories: 0, Items: []fitness.FoodItem{}},
		},
		{name: "missing items", content: `{"totalCalories":100}`, wantErr: ErrMalformedResponse},
		{name: "missing total", content: `{"items":[]}`, wantErr: ErrMalformedResponse},
		{name: "not json", content: "I see a sandwich", wantErr: ErrMalformedResponse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, req := server(t, http.StatusOK, completion(tc.content))
			got, err := c.AnalyzeMeal(context.Background(), "aW1n")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			body := *req
			assert.Equal(t, "test-model", body["model"])
			rf := body["response_format"].(map[string]any)
			assert.Equal(t, "json_schema", rf["type"])
			raw, _ := json.Marshal(body["messages"])
			assert.Contains(t, string(raw), "data:image/jpeg;base64,aW1n")
		})
	}
}

func TestGenerateWorkoutPlan(t *testing.T) {
	c, req := server(t, http.StatusOK, completion("## Day 1\n- **Squat**"))

	got, err := c.GenerateWorkoutPlan(context.Background(), "legs", "", "")
	require.NoError(t, err)
	assert.Equal(t, "## Day 1\n- **Squat**", got)
	assert.Equal(t, "plan-model", (*req)["model"])
	raw, _ := json.Marshal((*req)["messages"])
	assert.NotContains(t, string(raw), "equipment")

	_, err = c.GenerateWorkoutPlan(context.Background(), "legs", "Z3lt", "image/png")
	require.NoError(t, err)
	raw, _ = json.Marshal((*req)["messages"])
	assert.Contains(t, string(raw), "data:image/png;base64,Z3lt")
	assert.Contains(t, string(raw), "gym equipment")
}

func TestGenerateStructuredPlan(t *testing.T) {
	c, _ := server(t, http.StatusOK, completion(`{"title":"Strong","days":[{"day":1,"title":"Legs","exercises":[{"name":"Squat","description":"5x5"}]}]}`))

	got, err := c.GenerateStructuredPlan(context.Background(), "strength")
	require.NoError(t, err)
	assert.Equal(t, fitness.ActiveWorkoutPlan{Title: "Strong", Days: []fitness.DayPlan{
		{Day: 1, Title: "Legs", Exercises: []fitness.Exercise{{Name: "Squat", Description: "5x5"}}},
	}}, got)

	c, _ = server(t, http.StatusOK, completion(`{"title":"No days"}`))
	_, err = c.GenerateStructuredPlan(context.Background(), "strength")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestAPIErrors(t *testing.T) {
	c, _ := server(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)
	_, err := c.AnalyzeMeal(context.Background(), "aW1n")
	require.Error(t, err)
	assert.Equal(t, "Sorry, I encountered an error. Please try again.", UserMessage(err))

	c, _ = server(t, http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`)
	_, err = c.GenerateStructuredPlan(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, UserMessage(err), "busy")
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(fmt.Errorf("wrap: %w", ErrMalformedResponse)), "Could not understand")
	assert.Contains(t, UserMessage(ErrNotConfigured), "not set up")
	assert.Contains(t, UserMessage(context.DeadlineExceeded), "too long")
	assert.Contains(t, UserMessage(errors.New("other")), "Sorry")
}

func sse(chunks ...string) string {
	var b strings.Builder
	for _, c := range chunks {
		data, _ := json.Marshal(map[string]any{
			"id": "chatcmpl-1", "object": "chat.completion.chunk", "created": 1, "model": "test",
			"choices": []any{map[string]any{"index": 0, "delta": map[string]any{"content": c}}},
		})
		fmt.Fprintf(&b, "data: %s\n\n", data)
	}
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

func TestChatSend(t *testing.T) {
	c, req := server(t, http.StatusOK, sse("Hel", "lo ", "there"))
	history := []fitness.ChatMessage{
		fitness.NewChatMessage(fitness.RoleUser, "hi"),
		fitness.NewChatMessage(fitness.RoleModel, "hey"),
	}
	chat := c.StartChat("be nice", history)

	var chunks []string
	reply, err := chat.Send(context.Background(), "how are you?", func(s string) { chunks = append(chunks, s) })
	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)
	assert.Equal(t, []string{"Hel", "lo ", "there"}, chunks)

	msgs := (*req)["messages"].([]any)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[2].(map[string]any)["role"])
	assert.Equal(t, true, (*req)["stream"])

	got := chat.History()
	require.Len(t, got, 4)
	assert.Equal(t, "how are you?", got[2].Text())
	assert.Equal(t, fitness.RoleModel, got[3].Role)
	assert.Equal(t, "Hello there", got[3].Text())
	assert.Len(t, history, 2, "caller history untouched")
}

func TestChatSendFailureKeepsHistory(t *testing.T) {
	c, _ := server(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`)
	chat := c.StartChat("sys", nil)

	_, err := chat.Send(context.Background(), "hello", nil)
	require.Error(t, err)
	assert.Empty(t, chat.History())
}

func TestSystemInstruction(t *testing.T) {
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

	empty := SystemInstruction(app.Snapshot{}, now)
	assert.Contains(t, empty, "User Profile: not set up yet.")
	assert.Contains(t, empty, "None logged yet.")
	assert.Contains(t, empty, "Plan Title: None selected")
	assert.Contains(t, empty, "No workouts logged yet.")

	snap := app.Snapshot{
		Profile:   &fitness.UserProfile{Age: 40, Gender: fitness.Female, Weight: 70, Height: 165, ActivityLevel: fitness.ModeratelyActive},
		WeightLog: []fitness.WeightLogEntry{{Date: "2024-03-01", Weight: 71}, {Date: "2024-03-09", Weight: 69.5}},
		Meals: []fitness.Meal{
			{Date: "2024-03-09", TotalCalories: 900, Items: []fitness.FoodItem{{Name: "Pizza"}}},
			{Date: "2024-03-10", TotalCalories: 350, Items: []fitness.FoodItem{{Name: "Oats"}, {Name: "Banana"}}},
			{Date: "2024-03-10", TotalCalories: 600, Items: []fitness.FoodItem{{Name: "Curry"}}},
		},
		ActivePlan:  &fitness.ActiveWorkoutPlan{Title: "Spring Shred"},
		WorkoutLogs: []fitness.WorkoutLog{{Date: "2024-03-09T07:00:00Z", PlanTitle: "Spring Shred", DayTitle: "Upper"}},
	}
	got := SystemInstruction(snap, now)
	for _, want := range []string{
		"- Age: 40",
		"- Gender: Female",
		"- Current Weight: 69.5 kg",
		"- Stated Activity Level: Moderately Active",
		"User's Nutrition Today (2024-03-10)",
		"- Total Calories Consumed: 950",
		"- Meals Logged: Oats, Banana; Curry",
		"- Plan Title: Spring Shred",
		"Recent Workout History (1 total logs)",
		"- Last Workout: Spring Shred - Upper on 9 Mar 2024",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "Pizza")
}

func TestCategoryPrompt(t *testing.T) {
	p, ok := CategoryPrompt("quick hiit")
	assert.True(t, ok)
	assert.Contains(t, p, "20-minute")
	_, ok = CategoryPrompt("Yoga")
	assert.False(t, ok)
	assert.Len(t, Categories, 6)
}

func TestSchemasAreStrict(t *testing.T) {
	raw, err := json.Marshal(PlanSchema)
	require.NoError(t, err)
	var s map[string]any
	require.NoError(t, json.Unmarshal(raw, &s))
	assert.Equal(t, false, s["additionalProperties"])
	assert.ElementsMatch(t, []any{"title", "days"}, s["required"])
	assert.NotContains(t, string(raw), "$ref")
}
