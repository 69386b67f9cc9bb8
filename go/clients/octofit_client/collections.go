package octofit_client

import (
	"context"
	"fmt"

	"github.com/octofit/dashboard/go/internal/models"
)

func (c *OctofitClient) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, c, UsersEndpoint, "users")
}

func (c *OctofitClient) ListTeams(ctx context.Context) ([]models.Team, error) {
	return list[models.Team](ctx, c, TeamsEndpoint, "teams")
}

func (c *OctofitClient) ListActivities(ctx context.Context) ([]models.Activity, error) {
	return list[models.Activity](ctx, c, ActivitiesEndpoint, "activities")
}

// ListLeaderboard keeps the server order; callers derive rank from position.
func (c *OctofitClient) ListLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return list[models.LeaderboardEntry](ctx, c, LeaderboardEndpoint, "leaderboard")
}

func (c *OctofitClient) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	return list[models.Workout](ctx, c, WorkoutsEndpoint, "workouts")
}

func list[T any](ctx context.Context, c *OctofitClient, endpoint, resource string) ([]T, error) {
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	items, err := decodeCollection[T](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", resource, err)
	}
	return items, nil
}
