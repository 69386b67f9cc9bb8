package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/octofit/dashboard/go/internal/models"
)

// Placeholders shown instead of missing fields.
const (
	PlaceholderNA            = "N/A"
	PlaceholderUnknown       = "Unknown"
	PlaceholderNoDate        = "No date"
	PlaceholderNoDescription = "No description"
	PlaceholderNoTeam        = "No Team"
	PlaceholderNoName        = "No name provided"
)

// DateLayout renders dates as "Mon D, YYYY".
const DateLayout = "Jan 2, 2006"

// Cell is a table value; placeholders are rendered muted.
type Cell struct {
	Text        string
	Placeholder bool
}

func value(text string) Cell {
	return Cell{Text: text}
}

func placeholder(text string) Cell {
	return Cell{Text: text, Placeholder: true}
}

func textOr(o models.Opt[string], fallback string) Cell {
	if !o.Valid || o.Value == "" {
		return placeholder(fallback)
	}
	return value(o.Value)
}

// FormatDate renders ts in UTC, or the "No date" placeholder.
func FormatDate(ts models.Timestamp) Cell {
	if !ts.Valid {
		return placeholder(PlaceholderNoDate)
	}
	return value(ts.Time.UTC().Format(DateLayout))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type ActivityRow struct {
	ID       string
	Type     Cell
	User     Cell
	Duration Cell
	Calories Cell
	Distance Cell
	Date     Cell
}

func ActivityRows(activities []models.Activity) []ActivityRow {
	rows := make([]ActivityRow, 0, len(activities))
	for _, a := range activities {
		row := ActivityRow{
			ID:       a.ID.String(),
			Type:     textOr(a.ActivityType, PlaceholderNA),
			User:     placeholder(PlaceholderUnknown),
			Duration: placeholder(PlaceholderNA),
			Calories: placeholder(PlaceholderNA),
			Distance: placeholder(PlaceholderNA),
			Date:     FormatDate(a.CreatedAt),
		}
		if a.User.Valid {
			row.User = textOr(a.User.Value.Username, PlaceholderUnknown)
		}
		if a.DurationMinutes.Valid {
			row.Duration = value(fmt.Sprintf("%d min", a.DurationMinutes.Value))
		}
		if a.CaloriesBurned.Valid {
			row.Calories = value(fmt.Sprintf("%d cal", a.CaloriesBurned.Value))
		}
		if a.DistanceKM.Valid && a.DistanceKM.Value != 0 {
			row.Distance = value(formatFloat(a.DistanceKM.Value) + " km")
		}
		rows = append(rows, row)
	}
	return rows
}

type TeamRow struct {
	ID          string
	Name        Cell
	Description template.HTML
	HasDesc     bool
	Members     int64
	Created     Cell
}

func TeamRows(teams []models.Team) []TeamRow {
	rows := make([]TeamRow, 0, len(teams))
	for _, t := range teams {
		desc := strings.TrimSpace(t.Description.Or(""))
		rows = append(rows, TeamRow{
			ID:          t.ID.String(),
			Name:        textOr(t.Name, PlaceholderNA),
			Description: Markdown(desc),
			HasDesc:     desc != "",
			Members:     t.MemberCount.Or(0),
			Created:     FormatDate(t.CreatedAt),
		})
	}
	return rows
}

type LeaderboardRow struct {
	Rank       int
	Icon       string
	BadgeClass string
	User       Cell
	Team       Cell
	Points     int64
	Activities int64
	Calories   int64
}

// RankIcon returns the medal for the top three and a runner otherwise.
func RankIcon(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return "🏃"
	}
}

func RankBadgeClass(rank int) string {
	switch rank {
	case 1:
		return "bg-warning text-dark"
	case 2:
		return "bg-secondary"
	case 3:
		return "bg-danger"
	default:
		return "bg-primary"
	}
}

// LeaderboardRows ranks entries by their position in the server's sequence.
func LeaderboardRows(entries []models.LeaderboardEntry) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(entries))
	for i, e := range entries {
		rank := i + 1
		row := LeaderboardRow{
			Rank:       rank,
			Icon:       RankIcon(rank),
			BadgeClass: RankBadgeClass(rank),
			User:       placeholder(PlaceholderUnknown),
			Team:       placeholder(PlaceholderNoTeam),
			Points:     e.TotalPoints.Or(0),
			Activities: e.TotalActivities.Or(0),
			Calories:   e.TotalCalories.Or(0),
		}
		if e.User.Valid {
			row.User = textOr(e.User.Value.Username, PlaceholderUnknown)
		}
		if e.Team.Valid {
			row.Team = textOr(e.Team.Value.Name, PlaceholderNoTeam)
		}
		rows = append(rows, row)
	}
	return rows
}

type WorkoutCard struct {
	ID              string
	Name            Cell
	Description     template.HTML
	Difficulty      string
	DifficultyClass string
	Duration        int64
	TargetCalories  int64
	Exercises       []string
}

func DifficultyBadgeClass(difficulty string) string {
	if difficulty == "" {
		return "bg-secondary"
	}
	switch strings.ToLower(difficulty) {
	case "easy":
		return "bg-success"
	case "medium", "moderate":
		return "bg-warning text-dark"
	case "hard", "difficult":
		return "bg-danger"
	default:
		return "bg-info text-dark"
	}
}

func WorkoutCards(workouts []models.Workout) []WorkoutCard {
	cards := make([]WorkoutCard, 0, len(workouts))
	for _, w := range workouts {
		difficulty := w.Difficulty.Or("")
		cards = append(cards, WorkoutCard{
			ID:              w.ID.String(),
			Name:            textOr(w.Name, PlaceholderNA),
			Description:     Markdown(w.Description.Or("")),
			Difficulty:      difficulty,
			DifficultyClass: DifficultyBadgeClass(difficulty),
			Duration:        w.DurationMinutes.Or(0),
			TargetCalories:  w.TargetCalories.Or(0),
			Exercises:       w.Exercises.Or(nil),
		})
	}
	return cards
}

type UserRow struct {
	ID       string
	Username Cell
	FullName Cell
	Email    string
	Team     Cell
	Points   int64
	Rank     Cell
}

func UserRows(users []models.User) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		row := UserRow{
			ID:       u.ID.String(),
			Username: textOr(u.Username, PlaceholderNA),
			FullName: placeholder(PlaceholderNoName),
			Email:    u.Email.Or(""),
			Team:     placeholder(PlaceholderNoTeam),
			Points:   u.Points.Or(0),
			Rank:     placeholder(PlaceholderNA),
		}
		if name := u.FullName(); name != "" {
			row.FullName = value(name)
		}
		if u.Team.Valid {
			row.Team = textOr(u.Team.Value.Name, PlaceholderNoTeam)
		}
		if rank := u.Rank.Or(0); rank != 0 {
			row.Rank = value(fmt.Sprintf("#%d", rank))
		}
		rows = append(rows, row)
	}
	return rows
}
