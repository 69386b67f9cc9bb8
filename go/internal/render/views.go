package render

import (
	"fmt"
	"html/template"

	"github.com/octofit/dashboard/go/internal/directory"
	"github.com/octofit/dashboard/go/internal/models"
	"github.com/octofit/dashboard/go/internal/viewer"
)

// View names, also used as URL paths and template names.
const (
	ViewUsers       = "users"
	ViewActivities  = "activities"
	ViewTeams       = "teams"
	ViewLeaderboard = "leaderboard"
	ViewWorkouts    = "workouts"
)

type viewMeta struct {
	Title      string
	CountLabel string
	NavLabel   string
}

var views = map[string]viewMeta{
	ViewUsers:       {Title: "Users Directory", CountLabel: "Total Users", NavLabel: "Users"},
	ViewActivities:  {Title: "Activity Log", CountLabel: "Activities", NavLabel: "Activities"},
	ViewTeams:       {Title: "Teams", CountLabel: "Teams", NavLabel: "Teams"},
	ViewLeaderboard: {Title: "Leaderboard", CountLabel: "Competitors", NavLabel: "Leaderboard"},
	ViewWorkouts:    {Title: "Workout Suggestions", CountLabel: "Workouts", NavLabel: "Workouts"},
}

// NavOrder is the order of the links in the navigation header.
var NavOrder = []string{ViewUsers, ViewActivities, ViewTeams, ViewLeaderboard, ViewWorkouts}

// KnownView reports whether name is a dashboard view.
func KnownView(name string) bool {
	_, ok := views[name]
	return ok
}

// NavLabel is the header link text of a view.
func NavLabel(name string) string {
	return views[name].NavLabel
}

// CountLabel is the noun shown next to a view's item count.
func CountLabel(name string) string {
	return views[name].CountLabel
}

// Fragment is anything that renders into the view container.
type Fragment interface {
	TemplateName() string
}

// View is the template data of one collection view.
type View struct {
	Name        string
	Title       string
	CountLabel  string
	LoadingText string
	State       viewer.State
	Err         string
	Count       int
	Rows        any
}

func (v View) TemplateName() string { return v.Name }
func (v View) Loading() bool        { return v.State == viewer.StateLoading }
func (v View) Failed() bool         { return v.State == viewer.StateError }

func fromSnapshot[T any](name string, snap viewer.Snapshot[T], rows func([]T) any) View {
	meta := views[name]
	v := View{
		Name:        name,
		Title:       meta.Title,
		CountLabel:  meta.CountLabel,
		LoadingText: fmt.Sprintf("Loading %s...", name),
		State:       snap.State,
		Err:         snap.Err,
		Count:       snap.Count(),
	}
	if snap.State == viewer.StateSuccess {
		v.Rows = rows(snap.Items)
	}
	return v
}

func ActivitiesView(snap viewer.Snapshot[models.Activity]) View {
	return fromSnapshot(ViewActivities, snap, func(items []models.Activity) any { return ActivityRows(items) })
}

func TeamsView(snap viewer.Snapshot[models.Team]) View {
	return fromSnapshot(ViewTeams, snap, func(items []models.Team) any { return TeamRows(items) })
}

func LeaderboardView(snap viewer.Snapshot[models.LeaderboardEntry]) View {
	return fromSnapshot(ViewLeaderboard, snap, func(items []models.LeaderboardEntry) any { return LeaderboardRows(items) })
}

func WorkoutsView(snap viewer.Snapshot[models.Workout]) View {
	return fromSnapshot(ViewWorkouts, snap, func(items []models.Workout) any { return WorkoutCards(items) })
}

// Loading is the fragment a view shows before its first fetch settles.
func Loading(name string) Fragment {
	if name == ViewUsers {
		return UsersViewFrom(directory.State{Users: viewer.Snapshot[models.User]{State: viewer.StateLoading}})
	}
	return fromSnapshot(name, viewer.Snapshot[struct{}]{State: viewer.StateLoading}, func([]struct{}) any { return nil })
}

// TeamOption is one entry of the edit form's team selector.
type TeamOption struct {
	ID       string
	Name     string
	Selected bool
}

// EditForm is the template data of the edit modal.
type EditForm struct {
	UserID         string
	Username       string
	Form           directory.Form
	Teams          []TeamOption
	SaveError      string
	SaveSuccess    bool
	SubmitDisabled bool
	Action         string
	CSRFField      template.HTML
}

// UsersView is the user directory with the optional edit modal.
type UsersView struct {
	View
	Editing *EditForm
}

// EditAction is the form fallback endpoint for a user.
func EditAction(id string) string {
	return fmt.Sprintf("/users/edit/%s", id)
}

// WithCSRFField puts a CSRF token field into the edit form of a users view.
// Other fragments are returned unchanged.
func WithCSRFField(f Fragment, field template.HTML) Fragment {
	uv, ok := f.(UsersView)
	if !ok || uv.Editing == nil || field == "" {
		return f
	}
	edit := *uv.Editing
	edit.CSRFField = field
	uv.Editing = &edit
	return uv
}

func UsersViewFrom(state directory.State) UsersView {
	uv := UsersView{
		View: fromSnapshot(ViewUsers, state.Users, func(items []models.User) any { return UserRows(items) }),
	}
	if state.Editing == nil {
		return uv
	}

	editing := state.Editing
	options := make([]TeamOption, 0, len(state.Teams))
	for _, t := range state.Teams {
		options = append(options, TeamOption{
			ID:       t.ID.String(),
			Name:     t.Name.Or(PlaceholderNA),
			Selected: t.ID.String() == editing.Form.TeamID,
		})
	}

	uv.Editing = &EditForm{
		UserID:         editing.User.ID.String(),
		Username:       editing.User.Username.Or(""),
		Form:           editing.Form,
		Teams:          options,
		SaveError:      state.SaveErr,
		SaveSuccess:    state.Save == directory.SaveSucceeded,
		SubmitDisabled: state.SubmitDisabled(),
		Action:         EditAction(editing.User.ID.String()),
	}
	return uv
}
