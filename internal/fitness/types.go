// Package fitness holds the entities tracked by fitpal and the small
// calculations performed on them.
package fitness

// Gender is the biological sex used by the BMR equation.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ActivityLevel is the TDEE multiplier chosen by the user.
type ActivityLevel float64

const (
	Sedentary        ActivityLevel = 1.2
	LightlyActive    ActivityLevel = 1.375
	ModeratelyActive ActivityLevel = 1.55
	VeryActive       ActivityLevel = 1.725
	SuperActive      ActivityLevel = 1.9
)

// ActivityLevels lists the accepted multipliers in ascending order.
var ActivityLevels = []ActivityLevel{Sedentary, LightlyActive, ModeratelyActive, VeryActive, SuperActive}

// Valid reports whether l is one of the known multipliers.
func (l ActivityLevel) Valid() bool {
	for _, v := range ActivityLevels {
		if l == v {
			return true
		}
	}
	return false
}

// Name returns the lower-case label for the level, e.g. "lightly active".
func (l ActivityLevel) Name() string {
	switch l {
	case Sedentary:
		return "sedentary"
	case LightlyActive:
		return "lightly active"
	case ModeratelyActive:
		return "moderately active"
	case VeryActive:
		return "very active"
	case SuperActive:
		return "super active"
	}
	return ""
}

// UserProfile is the single profile driving the calorie goal.
type UserProfile struct {
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender"`
	Weight        float64       `json:"weight"` // kg
	Height        float64       `json:"height"` // cm
	ActivityLevel ActivityLevel `json:"activityLevel"`
}

type FoodItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Grams    float64 `json:"grams"`
}

// MealAnalysis is what the coach returns for a meal photo.
type MealAnalysis struct {
	TotalCalories float64    `json:"totalCalories"`
	Items         []FoodItem `json:"items"`
}

// Meal is a logged meal. Image holds base64 image data.
type Meal struct {
	TotalCalories float64    `json:"totalCalories"`
	Items         []FoodItem `json:"items"`
	Image         string     `json:"image"`
	Date          string     `json:"date"` // YYYY-MM-DD
}

type ChatPart struct {
	Text string `json:"text"`
}

// ChatRole is either RoleUser or RoleModel.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role  ChatRole   `json:"role"`
	Parts []ChatPart `json:"parts"`
}

// NewChatMessage returns a single-part message.
func NewChatMessage(role ChatRole, text string) ChatMessage {
	return ChatMessage{Role: role, Parts: []ChatPart{{Text: text}}}
}

// Text joins the text of every part.
func (m ChatMessage) Text() string {
	var s string
	for _, p := range m.Parts {
		s += p.Text
	}
	return s
}

type Exercise struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type DayPlan struct {
	Day       int        `json:"day"`
	Title     string     `json:"title"`
	Exercises []Exercise `json:"exercises"`
}

// ActiveWorkoutPlan is the program the user currently follows.
type ActiveWorkoutPlan struct {
	Title string    `json:"title"`
	Days  []DayPlan `json:"days"`
}

type WeightLogEntry struct {
	Date   string  `json:"date"`   // YYYY-MM-DD
	Weight float64 `json:"weight"` // kg
}

type LoggedSet struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

type LoggedExercise struct {
	Name string      `json:"name"`
	Sets []LoggedSet `json:"sets"`
}

// WorkoutLog is one finished session. Date is an RFC3339 timestamp.
type WorkoutLog struct {
	Date      string           `json:"date"`
	PlanTitle string           `json:"planTitle"`
	DayTitle  string           `json:"dayTitle"`
	Exercises []LoggedExercise `json:"exercises"`
}
