package models

import "strings"

// TeamRef is the team summary nested in users and leaderboard entries.
type TeamRef struct {
	ID   ID          `json:"id"`
	Name Opt[string] `json:"name"`
}

// UserRef is the user summary nested in activities and leaderboard entries.
type UserRef struct {
	ID       ID          `json:"id"`
	Username Opt[string] `json:"username"`
}

// User represents a user in the system
type User struct {
	ID        ID           `json:"id"`
	Username  Opt[string]  `json:"username"`
	FirstName Opt[string]  `json:"first_name"`
	LastName  Opt[string]  `json:"last_name"`
	Email     Opt[string]  `json:"email"`
	Team      Opt[TeamRef] `json:"team"`
	Points    Opt[int64]   `json:"points"`
	Rank      Opt[int64]   `json:"rank"`
}

// FullName joins first and last name; empty when neither is set.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName.Or("") + " " + u.LastName.Or(""))
}

// TeamID is the id of the user's team, or "" when the user has none.
func (u User) TeamID() ID {
	if !u.Team.Valid {
		return ""
	}
	return u.Team.Value.ID
}

// UserPatch is the partial update accepted by PATCH /api/users/{id}/.
// An empty TeamID is sent as null.
type UserPatch struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	TeamID    ID     `json:"team_id"`
}
