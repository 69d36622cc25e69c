package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the profile, today's calories and achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *runtime) error {
			out := cmd.OutOrStdout()
			snap := rt.state.Snapshot()
			if snap.Profile == nil {
				fmt.Fprintln(out, "Profile: not set")
			} else {
				p := snap.Profile
				fmt.Fprintf(out, "Profile: %d y/o %s, %.1f kg, %.0f cm, %s\n", p.Age, p.Gender, p.Weight, p.Height, p.ActivityLevel.Name())
				goal, _ := rt.state.DailyCalorieGoal()
				fmt.Fprintf(out, "Calories today: %.0f / %.0f kcal\n", rt.state.TodayCalories(), goal)
			}
			fmt.Fprintf(out, "Meals: %d | Workouts: %d | Weight entries: %d\n", len(snap.Meals), len(snap.WorkoutLogs), len(snap.WeightLog))
			if snap.ActivePlan != nil {
				fmt.Fprintf(out, "Active plan: %s (%d days)\n", snap.ActivePlan.Title, len(snap.ActivePlan.Days))
			}
			fmt.Fprintf(out, "Honor Health: %s\n", map[bool]string{true: "connected", false: "not connected"}[snap.Connected])
			fmt.Fprintln(out, "Achievements:")
			for _, a := range snap.Achievements {
				mark := " "
				if a.Unlocked {
					mark = "x"
				}
				fmt.Fprintf(out, "  [%s] %s: %s\n", mark, a.Title, a.Description)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
