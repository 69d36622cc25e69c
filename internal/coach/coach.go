// Package coach talks to an OpenAI-compatible chat completions API to analyse
// meal photos, write workout plans and hold the coaching conversation.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/lildude/fitpal/internal/fitness"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
)

const DefaultModel = "gpt-4o-mini"

var (
	// ErrMalformedResponse is returned when the model reply does not match the
	// requested structure.
	ErrMalformedResponse = errors.New("malformed response from AI")
	ErrNotConfigured     = errors.New("AI coach is not configured")
)

// Config holds the settings for New.
type Config struct {
	APIKey  string
	BaseURL string
	// Model is used for meal analysis, structured plans and chat.
	Model string
	// PlanModel writes freeform plans. Defaults to Model.
	PlanModel  string
	HTTPClient *http.Client
}

// Client wraps the chat completions API.
type Client struct {
	api       openai.Client
	model     string
	planModel string
	log       logrus.FieldLogger
}

// New returns a Client. Requests are never retried.
func New(cfg Config, log logrus.FieldLogger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.PlanModel == "" {
		cfg.PlanModel = cfg.Model
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		api:       openai.NewClient(opts...),
		model:     cfg.Model,
		planModel: cfg.PlanModel,
		log:       log,
	}, nil
}

// GenerateSchema reflects T into an inline JSON schema suitable for strict
// structured output.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

type foodItemSchema struct {
	Name     string  `json:"name" jsonschema_description:"Name of the food item."`
	Calories float64 `json:"calories" jsonschema_description:"Estimated calories for this item."`
	Grams    float64 `json:"grams" jsonschema_description:"Estimated weight in grams for this item."`
}

type mealSchema struct {
	TotalCalories float64          `json:"totalCalories" jsonschema_description:"Total calories for the entire meal."`
	Items         []foodItemSchema `json:"items"`
}

type exerciseSchema struct {
	Name        string `json:"name" jsonschema_description:"The name of the exercise (e.g. \"Bench Press\")."`
	Description string `json:"description" jsonschema_description:"Sets, reps and rest time (e.g. \"3 sets of 8-12 reps, 60s rest\")."`
}

type daySchema struct {
	Day       int              `json:"day" jsonschema_description:"The day number of the plan (e.g. 1, 2, 3)."`
	Title     string           `json:"title" jsonschema_description:"The focus for the day (e.g. \"Chest & Triceps\")."`
	Exercises []exerciseSchema `json:"exercises" jsonschema_description:"A list of exercises for the day."`
}

type planSchema struct {
	Title string      `json:"title" jsonschema_description:"A catchy title for the workout plan."`
	Days  []daySchema `json:"days" jsonschema_description:"An array of daily workout plans."`
}

var (
	MealSchema = GenerateSchema[mealSchema]()
	PlanSchema = GenerateSchema[planSchema]()
)

func jsonFormat(name, description string, schema any) openai.ChatCompletionNewParamsResponseFormatUnion {
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        name,
				Description: openai.String(description),
				Schema:      schema,
				Strict:      openai.Bool(true),
			},
		},
	}
}

func (c *Client) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// decode unmarshals a structured reply, tolerating a markdown code fence
// around the JSON.
func (c *Client) decode(content string, v any) error {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), v); err != nil {
		c.log.WithError(err).WithField("raw", content).Warn("failed to parse AI response")
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func imagePart(mimeType, base64Data string) openai.ChatCompletionContentPartUnionParam {
	return openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
		URL: fmt.Sprintf("data:%s;base64,%s", mimeType, base64Data),
	})
}

// AnalyzeMeal identifies the food in a JPEG photo and estimates its calories.
func (c *Client) AnalyzeMeal(ctx context.Context, imageBase64 string) (fitness.MealAnalysis, error) {
	content, err := c.complete(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				imagePart("image/jpeg", imageBase64),
				openai.TextContentPart(mealPrompt),
			}),
		},
		ResponseFormat: jsonFormat("meal_analysis", "Food items found in a meal photo with calorie estimates.", MealSchema),
	})
	if err != nil {
		return fitness.MealAnalysis{}, err
	}

	var raw struct {
		TotalCalories *float64           `json:"totalCalories"`
		Items         []fitness.FoodItem `json:"items"`
	}
	if err := c.decode(content, &raw); err != nil {
		return fitness.MealAnalysis{}, err
	}
	if raw.TotalCalories == nil || raw.Items == nil {
		c.log.WithField("raw", content).Warn("meal analysis missing fields")
		return fitness.MealAnalysis{}, fmt.Errorf("%w: totalCalories and items are required", ErrMalformedResponse)
	}
	return fitness.MealAnalysis{TotalCalories: *raw.TotalCalories, Items: raw.Items}, nil
}

// GenerateWorkoutPlan writes a markdown plan for prompt. When an image of the
// available equipment is given the plan takes it into account.
func (c *Client) GenerateWorkoutPlan(ctx context.Context, prompt, imageBase64, mimeType string) (string, error) {
	text := fmt.Sprintf(freeformPlanPrompt, prompt)
	parts := []openai.ChatCompletionContentPartUnionParam{}
	if imageBase64 != "" && mimeType != "" {
		parts = append(parts, imagePart(mimeType, imageBase64))
		text += equipmentSuffix
	}
	parts = append(parts, openai.TextContentPart(text))

	return c.complete(ctx, openai.ChatCompletionNewParams{
		Model:    c.planModel,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
	})
}

// GenerateStructuredPlan builds a multi-day plan that can become the active plan.
func (c *Client) GenerateStructuredPlan(ctx context.Context, prompt string) (fitness.ActiveWorkoutPlan, error) {
	content, err := c.complete(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(structuredPlanPrompt, prompt)),
		},
		ResponseFormat: jsonFormat("workout_plan", "A multi-day workout plan.", PlanSchema),
	})
	if err != nil {
		return fitness.ActiveWorkoutPlan{}, err
	}

	var raw struct {
		Title *string           `json:"title"`
		Days  []fitness.DayPlan `json:"days"`
	}
	if err := c.decode(content, &raw); err != nil {
		return fitness.ActiveWorkoutPlan{}, err
	}
	if raw.Title == nil || raw.Days == nil {
		c.log.WithField("raw", content).Warn("workout plan missing fields")
		return fitness.ActiveWorkoutPlan{}, fmt.Errorf("%w: title and days are required", ErrMalformedResponse)
	}
	return fitness.ActiveWorkoutPlan{Title: *raw.Title, Days: raw.Days}, nil
}

// UserMessage turns an error from this package into the short text shown to
// the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "The AI coach is not set up. Add an API key to enable it."
	case errors.Is(err, ErrMalformedResponse):
		return "Could not understand the response from the AI. Please try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "The AI took too long to respond. Please try again."
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return "The AI is busy right now. Please wait a moment and try again."
	}
	return "Sorry, I encountered an error. Please try again."
}
