package models

// Workout is a predefined workout suggestion.
type Workout struct {
	ID              ID            `json:"id"`
	Name            Opt[string]   `json:"name"`
	Description     Opt[string]   `json:"description"`
	Difficulty      Opt[string]   `json:"difficulty"`
	DurationMinutes Opt[int64]    `json:"duration_minutes"`
	TargetCalories  Opt[int64]    `json:"target_calories"`
	Exercises       Opt[[]string] `json:"exercises"`
}
