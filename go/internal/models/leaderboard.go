package models

// LeaderboardEntry carries a user's totals. Its rank is its position in the
// sequence returned by the API; any rank field on the wire is ignored.
type LeaderboardEntry struct {
	ID              ID           `json:"id"`
	User            Opt[UserRef] `json:"user"`
	Team            Opt[TeamRef] `json:"team"`
	TotalPoints     Opt[int64]   `json:"total_points"`
	TotalActivities Opt[int64]   `json:"total_activities"`
	TotalCalories   Opt[int64]   `json:"total_calories"`
}
