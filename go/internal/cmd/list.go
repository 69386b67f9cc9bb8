package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/octofit/dashboard/go/clients/octofit_client"
	"github.com/octofit/dashboard/go/internal/models"
	"github.com/octofit/dashboard/go/internal/render"
	"github.com/octofit/dashboard/go/internal/viewer"
)

var listCmd = &cobra.Command{
	Use:       "list <users|teams|activities|leaderboard|workouts>",
	Short:     "Print one collection as a table",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: render.NavOrder,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newAPIClient(cfg)
		return listCollection(cmd.Context(), cmd.OutOrStdout(), client, args[0])
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

type table struct {
	headers []string
	rows    [][]string
}

func listCollection(ctx context.Context, out io.Writer, client *octofit_client.OctofitClient, view string) error {
	var (
		t     table
		count int
		err   error
	)
	switch view {
	case render.ViewUsers:
		t, count, err = load(ctx, view, client.ListUsers, usersTable)
	case render.ViewTeams:
		t, count, err = load(ctx, view, client.ListTeams, teamsTable)
	case render.ViewActivities:
		t, count, err = load(ctx, view, client.ListActivities, activitiesTable)
	case render.ViewLeaderboard:
		t, count, err = load(ctx, view, client.ListLeaderboard, leaderboardTable)
	case render.ViewWorkouts:
		t, count, err = load(ctx, view, client.ListWorkouts, workoutsTable)
	default:
		return fmt.Errorf("unknown collection %q", view)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d %s\n", count, render.CountLabel(view))
	if count == 0 {
		return nil
	}
	return t.write(out)
}

// load reads a collection through a viewer, as a mounted view would.
func load[T any](ctx context.Context, view string, fetch viewer.FetchFunc[T], build func([]T) table) (table, int, error) {
	snap := viewer.New(view, fetch).Load(ctx)
	if snap.Failed() {
		return table{}, 0, fmt.Errorf("failed to load %s: %s", view, snap.Err)
	}
	if !snap.Ready() {
		return table{}, 0, fmt.Errorf("failed to load %s: %w", view, ctx.Err())
	}
	return build(snap.Items), snap.Count(), nil
}

func (t table) write(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.headers, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func usersTable(users []models.User) table {
	t := table{headers: []string{"USERNAME", "NAME", "EMAIL", "TEAM", "POINTS", "RANK"}}
	for _, r := range render.UserRows(users) {
		email := r.Email
		if email == "" {
			email = render.PlaceholderNA
		}
		t.rows = append(t.rows, []string{r.Username.Text, r.FullName.Text, email, r.Team.Text, itoa(r.Points), r.Rank.Text})
	}
	return t
}

func teamsTable(teams []models.Team) table {
	t := table{headers: []string{"NAME", "MEMBERS", "CREATED", "DESCRIPTION"}}
	for i, r := range render.TeamRows(teams) {
		desc := strings.Join(strings.Fields(teams[i].Description.Or("")), " ")
		if desc == "" {
			desc = render.PlaceholderNoDescription
		}
		t.rows = append(t.rows, []string{r.Name.Text, itoa(r.Members), r.Created.Text, desc})
	}
	return t
}

func activitiesTable(activities []models.Activity) table {
	t := table{headers: []string{"TYPE", "USER", "DURATION", "CALORIES", "DISTANCE", "DATE"}}
	for _, r := range render.ActivityRows(activities) {
		t.rows = append(t.rows, []string{r.Type.Text, r.User.Text, r.Duration.Text, r.Calories.Text, r.Distance.Text, r.Date.Text})
	}
	return t
}

func leaderboardTable(entries []models.LeaderboardEntry) table {
	t := table{headers: []string{"RANK", "USER", "TEAM", "POINTS", "ACTIVITIES", "CALORIES"}}
	for _, r := range render.LeaderboardRows(entries) {
		rank := fmt.Sprintf("%s #%d", r.Icon, r.Rank)
		t.rows = append(t.rows, []string{rank, r.User.Text, r.Team.Text, itoa(r.Points), itoa(r.Activities), itoa(r.Calories)})
	}
	return t
}

func workoutsTable(workouts []models.Workout) table {
	t := table{headers: []string{"NAME", "DIFFICULTY", "DURATION", "TARGET CALORIES", "EXERCISES"}}
	for _, r := range render.WorkoutCards(workouts) {
		difficulty := r.Difficulty
		if difficulty == "" {
			difficulty = render.PlaceholderNA
		}
		duration, calories := render.PlaceholderNA, render.PlaceholderNA
		if r.Duration != 0 {
			duration = fmt.Sprintf("%d min", r.Duration)
		}
		if r.TargetCalories != 0 {
			calories = fmt.Sprintf("%d cal", r.TargetCalories)
		}
		t.rows = append(t.rows, []string{r.Name.Text, difficulty, duration, calories, itoa(int64(len(r.Exercises)))})
	}
	return t
}
