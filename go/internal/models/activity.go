package models

// Activity is a single logged workout session.
type Activity struct {
	ID              ID           `json:"id"`
	ActivityType    Opt[string]  `json:"activity_type"`
	User            Opt[UserRef] `json:"user"`
	DurationMinutes Opt[int64]   `json:"duration_minutes"`
	CaloriesBurned  Opt[int64]   `json:"calories_burned"`
	DistanceKM      Opt[float64] `json:"distance_km"`
	CreatedAt       Timestamp    `json:"created_at"`
}
