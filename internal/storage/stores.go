package storage

import (
	"context"

	"github.com/lildude/fitpal/internal/achievements"
	"github.com/lildude/fitpal/internal/fitness"
	"golang.org/x/oauth2"
)

// Storage keys. The names match the layout the web client used.
const (
	UserProfileKey          = "userProfile"
	MealsKey                = "meals"
	ChatHistoryKey          = "chatHistory"
	ActiveWorkoutPlanKey    = "activeWorkoutPlan"
	ExerciseImageCacheKey   = "exerciseImageCache"
	WorkoutLogsKey          = "workoutLogs"
	WeightLogKey            = "weightLog"
	AchievementsKey         = "achievements"
	HonorHealthConnectedKey = "honorHealthConnected"
	HonorHealthTokenKey     = "honorHealthToken"
)

// Keys lists every key fitpal writes.
var Keys = []string{
	UserProfileKey, MealsKey, ChatHistoryKey, ActiveWorkoutPlanKey, ExerciseImageCacheKey,
	WorkoutLogsKey, WeightLogKey, AchievementsKey, HonorHealthConnectedKey, HonorHealthTokenKey,
}

func (a *Adapter) SaveUserProfile(ctx context.Context, p fitness.UserProfile) {
	a.Save(ctx, UserProfileKey, p)
}

// LoadUserProfile returns nil when no profile has been saved.
func (a *Adapter) LoadUserProfile(ctx context.Context) *fitness.UserProfile {
	return Load[*fitness.UserProfile](ctx, a, UserProfileKey, nil)
}

func (a *Adapter) SaveMeals(ctx context.Context, meals []fitness.Meal) {
	a.Save(ctx, MealsKey, meals)
}

func (a *Adapter) LoadMeals(ctx context.Context) []fitness.Meal {
	return Load(ctx, a, MealsKey, []fitness.Meal{})
}

func (a *Adapter) SaveChatHistory(ctx context.Context, messages []fitness.ChatMessage) {
	a.Save(ctx, ChatHistoryKey, messages)
}

func (a *Adapter) LoadChatHistory(ctx context.Context) []fitness.ChatMessage {
	return Load(ctx, a, ChatHistoryKey, []fitness.ChatMessage{})
}

func (a *Adapter) SaveActiveWorkoutPlan(ctx context.Context, plan fitness.ActiveWorkoutPlan) {
	a.Save(ctx, ActiveWorkoutPlanKey, plan)
}

// LoadActiveWorkoutPlan returns nil when no plan is active.
func (a *Adapter) LoadActiveWorkoutPlan(ctx context.Context) *fitness.ActiveWorkoutPlan {
	return Load[*fitness.ActiveWorkoutPlan](ctx, a, ActiveWorkoutPlanKey, nil)
}

func (a *Adapter) ClearActiveWorkoutPlan(ctx context.Context) {
	a.Remove(ctx, ActiveWorkoutPlanKey)
}

func (a *Adapter) SaveExerciseImageCache(ctx context.Context, images map[string]string) {
	a.Save(ctx, ExerciseImageCacheKey, images)
}

func (a *Adapter) LoadExerciseImageCache(ctx context.Context) map[string]string {
	images := Load(ctx, a, ExerciseImageCacheKey, map[string]string{})
	if images == nil {
		return map[string]string{}
	}
	return images
}

// InitializeImageCache seeds the image cache with the bundled catalog when,
// and only when, it is empty. It reports whether seeding happened.
func (a *Adapter) InitializeImageCache(ctx context.Context) bool {
	if len(a.LoadExerciseImageCache(ctx)) > 0 {
		return false
	}
	a.log.Info("initializing exercise image cache with preloaded images")
	a.SaveExerciseImageCache(ctx, PreloadedImages())
	return true
}

func (a *Adapter) SaveWorkoutLogs(ctx context.Context, logs []fitness.WorkoutLog) {
	a.Save(ctx, WorkoutLogsKey, logs)
}

func (a *Adapter) LoadWorkoutLogs(ctx context.Context) []fitness.WorkoutLog {
	return Load(ctx, a, WorkoutLogsKey, []fitness.WorkoutLog{})
}

func (a *Adapter) SaveWeightLog(ctx context.Context, entries []fitness.WeightLogEntry) {
	a.Save(ctx, WeightLogKey, entries)
}

func (a *Adapter) LoadWeightLog(ctx context.Context) []fitness.WeightLogEntry {
	return Load(ctx, a, WeightLogKey, []fitness.WeightLogEntry{})
}

// SaveAchievements stores only the id and unlock flag of each entry.
func (a *Adapter) SaveAchievements(ctx context.Context, list []achievements.Achievement) {
	a.Save(ctx, AchievementsKey, achievements.Statuses(list))
}

// LoadAchievements merges persisted unlock flags into the catalog.
func (a *Adapter) LoadAchievements(ctx context.Context) []achievements.Achievement {
	return achievements.Merge(Load(ctx, a, AchievementsKey, []achievements.Status{}))
}

func (a *Adapter) SaveHonorHealthConnectionStatus(ctx context.Context, connected bool) {
	a.Save(ctx, HonorHealthConnectedKey, connected)
}

func (a *Adapter) LoadHonorHealthConnectionStatus(ctx context.Context) bool {
	return Load(ctx, a, HonorHealthConnectedKey, false)
}

func (a *Adapter) SaveHonorHealthToken(ctx context.Context, token *oauth2.Token) {
	a.Save(ctx, HonorHealthTokenKey, token)
}

// LoadHonorHealthToken returns nil when the integration has never been authorized.
func (a *Adapter) LoadHonorHealthToken(ctx context.Context) *oauth2.Token {
	return Load[*oauth2.Token](ctx, a, HonorHealthTokenKey, nil)
}

func (a *Adapter) ClearHonorHealthToken(ctx context.Context) {
	a.Remove(ctx, HonorHealthTokenKey)
}
