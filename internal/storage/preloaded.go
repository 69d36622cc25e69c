package storage

// placeholderDumbbell is a small dumbbell SVG used until the user uploads a
// real picture for an exercise.
const placeholderDumbbell = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCA1MCA1MCIgZmlsbD0iIzk0QTNCOCI+PHJlY3QgeD0iNSIgeT0iMTUiIHdpZHRoPSIxMCIgaGVpZ2h0PSIyMCIgcng9IjIiLz48cmVjdCB4PSIzNSIgeT0iMTUiIHdpZHRoPSIxMCIgaGVpZ2h0PSIyMCIgcng9IjIiLz48cmVjdCB4PSIxMCIgeT0iMjIiIHdpZHRoPSIzMCIgaGVpZ2h0PSI2IiByeD0iMiIvPjwvc3ZnPg=="

var preloadedExercises = []string{
	// Strength
	"Bench Press", "Squat", "Barbell Squat", "Deadlift", "Overhead Press",
	"Pull-ups", "Dumbbell Rows", "Bicep Curls", "Tricep Pushdowns", "Leg Press",
	"Lateral Raises",
	// Bodyweight and cardio
	"Push-ups", "Crunches", "Plank", "Jumping Jacks", "Burpees",
	"High Knees", "Mountain Climbers", "Treadmill Run",
}

// PreloadedImages returns a fresh copy of the bundled exercise image table.
func PreloadedImages() map[string]string {
	images := make(map[string]string, len(preloadedExercises))
	for _, name := range preloadedExercises {
		images[name] = placeholderDumbbell
	}
	return images
}
