package coach

import (
	"fmt"
	"strings"
	"time"

	"github.com/lildude/fitpal/internal/app"
	"github.com/lildude/fitpal/internal/fitness"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const mealPrompt = `You are a nutrition expert. Analyze the food items in this image. For each item, identify it, estimate its weight in grams, and its calorie count. Provide a total calorie count for the entire meal. Respond ONLY with a JSON object that matches the provided schema.`

const freeformPlanPrompt = `You are an expert personal trainer. Create a detailed and motivating workout plan based on the following request: "%s". Include specific exercises, sets, reps, and rest times. IMPORTANT: Format the response using markdown. Use headings for sections, and bullet points or numbered lists for exercises. Make sure exercise names are wrapped in double asterisks, like **Bench Press**.`

const equipmentSuffix = ` Also consider the gym equipment visible in the provided image when creating the plan.`

const structuredPlanPrompt = `You are an expert personal trainer. Create a comprehensive, multi-day workout plan based on this request: "%s". The plan should be structured logically over several days. Respond ONLY with a JSON object that matches the provided schema.`

// IntroPrompt is sent on behalf of the user to open an empty conversation.
const IntroPrompt = "Hello, introduce yourself."

// Greeting is shown when the opening message cannot be fetched.
const Greeting = "Hello! I'm FitPal Coach, your AI coach. I'm having a little trouble getting started, but I'm here to help. What's on your mind?"

// Category is a preset prompt offered by the workout library.
type Category struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

var Categories = []Category{
	{"Muscle Gain", "A 5-day split workout plan focused on hypertrophy for muscle gain."},
	{"Fat Loss", "A 4-week workout plan combining HIIT and strength training for effective fat loss."},
	{"Full Body Strength", "A 3-day per week full-body strength training program for beginners."},
	{"Home Workout", "A challenging 30-minute bodyweight-only workout plan that can be done at home."},
	{"Quick HIIT", "A 20-minute high-intensity interval training (HIIT) session for a quick cardio burn."},
	{"Core Strength", "A dedicated core and abs workout routine to build a strong midsection."},
}

// CategoryPrompt returns the prompt for the named category.
func CategoryPrompt(title string) (string, bool) {
	for _, c := range Categories {
		if strings.EqualFold(c.Title, title) {
			return c.Prompt, true
		}
	}
	return "", false
}

const persona = `You are "FitPal Coach," the AI assistant for the all-in-one health app "FitPal."

Your role is to be an expert fitness coach, nutritionist, and an encouraging motivational partner. You are knowledgeable, empathetic, and proactive. Your primary goal is to help the user stay consistent and achieve their health goals.

You have access to the user's data within the app, which is provided below. Act AS IF you can see this data when you respond.

Your Guiding Rules:
* Tone: Always be encouraging, positive, and non-judgmental. If a user misses a workout or overeats, be supportive and help them get back on track.
* Safety First: You are NOT a medical doctor. Never diagnose an injury, illness, or medical condition. If a user mentions severe pain or a health issue, advise them to consult a qualified medical professional, doctor, or physical therapist.

---
CURRENT USER CONTEXT:
%s
---

Start the conversation by introducing yourself as FitPal Coach and giving a brief, encouraging overview based on their current context, then ask how you can help today.`

// SystemInstruction builds the coaching persona with a summary of the
// user's data as of now.
func SystemInstruction(snap app.Snapshot, now time.Time) string {
	return fmt.Sprintf(persona, userContext(snap, now))
}

func userContext(snap app.Snapshot, now time.Time) string {
	var b strings.Builder
	title := cases.Title(language.English)

	if p := snap.Profile; p != nil {
		weight := p.Weight
		if n := len(snap.WeightLog); n > 0 {
			weight = snap.WeightLog[n-1].Weight
		}
		activity := "Not set"
		if name := p.ActivityLevel.Name(); name != "" {
			activity = title.String(name)
		}
		fmt.Fprintf(&b, "User Profile:\n- Age: %d\n- Gender: %s\n- Current Weight: %g kg\n- Height: %g cm\n- Stated Activity Level: %s\n",
			p.Age, title.String(string(p.Gender)), weight, p.Height, activity)
	} else {
		b.WriteString("User Profile: not set up yet.\n")
	}

	today := fitness.Day(now)
	meals := fitness.MealsOn(snap.Meals, today)
	logged := "None logged yet."
	if len(meals) > 0 {
		names := make([]string, 0, len(meals))
		for _, m := range meals {
			items := make([]string, 0, len(m.Items))
			for _, i := range m.Items {
				items = append(items, i.Name)
			}
			names = append(names, strings.Join(items, ", "))
		}
		logged = strings.Join(names, "; ")
	}
	fmt.Fprintf(&b, "\nUser's Nutrition Today (%s):\n- Total Calories Consumed: %.0f\n- Meals Logged: %s\n",
		today, fitness.TotalCalories(meals), logged)

	plan := "None selected"
	if snap.ActivePlan != nil {
		plan = snap.ActivePlan.Title
	}
	fmt.Fprintf(&b, "\nUser's Active Workout Plan:\n- Plan Title: %s\n", plan)

	last := "No workouts logged yet."
	if len(snap.WorkoutLogs) > 0 {
		l := snap.WorkoutLogs[0]
		when := l.Date
		if t, err := fitness.ParseDate(l.Date); err == nil {
			when = t.In(now.Location()).Format("2 Jan 2006")
		}
		last = fmt.Sprintf("%s - %s on %s", l.PlanTitle, l.DayTitle, when)
	}
	fmt.Fprintf(&b, "\nRecent Workout History (%d total logs):\n- Last Workout: %s", len(snap.WorkoutLogs), last)

	return b.String()
}
