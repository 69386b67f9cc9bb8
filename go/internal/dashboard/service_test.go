package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octofit/dashboard/go/clients"
	"github.com/octofit/dashboard/go/internal/directory"
	"github.com/octofit/dashboard/go/internal/models"
	"github.com/octofit/dashboard/go/internal/render"
	"github.com/octofit/dashboard/go/internal/viewer"
)

type fakeAPI struct {
	mu          sync.Mutex
	users       []models.User
	teams       []models.Team
	activities  []models.Activity
	leaderboard []models.LeaderboardEntry
	workouts    []models.Workout
	err         error
	patches     []models.UserPatch
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]models.User, error) { return f.users, f.err }
func (f *fakeAPI) ListTeams(ctx context.Context) ([]models.Team, error) { return f.teams, f.err }
func (f *fakeAPI) ListActivities(ctx context.Context) ([]models.Activity, error) {
	return f.activities, f.err
}
func (f *fakeAPI) ListLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return f.leaderboard, f.err
}
func (f *fakeAPI) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	return f.workouts, f.err
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id models.ID, patch models.UserPatch) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	return &models.User{ID: id}, nil
}

type recorder struct {
	mu        sync.Mutex
	fragments []render.Fragment
}

func (r *recorder) push(f render.Fragment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fragments = append(r.fragments, f)
}

func (r *recorder) last() render.Fragment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fragments[len(r.fragments)-1]
}

func TestLoadEveryView(t *testing.T) {
	api := &fakeAPI{
		users:       []models.User{{ID: "1"}},
		teams:       []models.Team{{ID: "1"}, {ID: "2"}},
		activities:  []models.Activity{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		leaderboard: []models.LeaderboardEntry{{ID: "1"}},
		workouts:    []models.Workout{},
	}
	svc := NewService(api)

	counts := map[string]int{
		render.ViewUsers:       1,
		render.ViewTeams:       2,
		render.ViewActivities:  3,
		render.ViewLeaderboard: 1,
		render.ViewWorkouts:    0,
	}
	for view, count := range counts {
		t.Run(view, func(t *testing.T) {
			f, err := svc.Load(context.Background(), view)
			require.NoError(t, err)
			assert.Equal(t, view, f.TemplateName())

			var v render.View
			switch typed := f.(type) {
			case render.View:
				v = typed
			case render.UsersView:
				v = typed.View
			default:
				t.Fatalf("unexpected fragment %T", f)
			}
			assert.Equal(t, viewer.StateSuccess, v.State)
			assert.Equal(t, count, v.Count)
		})
	}
}

func TestLoadUnknownView(t *testing.T) {
	_, err := NewService(&fakeAPI{}).Load(context.Background(), "settings")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestCollectionSessionPushesLoadingThenError(t *testing.T) {
	rec := &recorder{}
	api := &fakeAPI{err: &clients.HTTPError{StatusCode: 500}}
	session, err := NewService(api).NewSession(render.ViewLeaderboard, rec.push)
	require.NoError(t, err)

	session.Mount(context.Background())

	require.Len(t, rec.fragments, 2)
	assert.Equal(t, viewer.StateLoading, rec.fragments[0].(render.View).State)
	failed := rec.fragments[1].(render.View)
	assert.Equal(t, viewer.StateError, failed.State)
	assert.Equal(t, "HTTP error! status: 500", failed.Err)

	assert.ErrorIs(t, session.Handle(context.Background(), ClientMessage{Type: MessageOpenEdit}), ErrUnsupportedMessage)
}

func TestCollectionSessionUnmountedBeforeLoad(t *testing.T) {
	rec := &recorder{}
	session, err := NewService(&fakeAPI{}).NewSession(render.ViewWorkouts, rec.push)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	session.Mount(ctx)

	require.Len(t, rec.fragments, 1)
	assert.Equal(t, viewer.StateLoading, rec.fragments[0].(render.View).State)
}

func TestUsersSessionEditFlow(t *testing.T) {
	rec := &recorder{}
	api := &fakeAPI{
		users: []models.User{{ID: "7", Username: models.Some("flash"), FirstName: models.Some("Barry")}},
		teams: []models.Team{{ID: "20", Name: models.Some("Team DC")}},
	}
	svc := NewService(api, directory.WithClock(clockwork.NewFakeClock()))
	session, err := svc.NewSession(render.ViewUsers, rec.push)
	require.NoError(t, err)
	ctx := context.Background()

	session.Mount(ctx)
	assert.Nil(t, rec.last().(render.UsersView).Editing)

	require.NoError(t, session.Handle(ctx, ClientMessage{Type: MessageOpenEdit, UserID: "7"}))
	editing := rec.last().(render.UsersView).Editing
	require.NotNil(t, editing)
	assert.Equal(t, "Barry", editing.Form.FirstName)

	form := directory.Form{FirstName: "Wally", LastName: "West", Email: "wally@dc.com", TeamID: "20"}
	require.NoError(t, session.Handle(ctx, ClientMessage{Type: MessageSubmit, Form: form}))
	saved := rec.last().(render.UsersView).Editing
	require.NotNil(t, saved)
	assert.True(t, saved.SaveSuccess)
	assert.True(t, saved.SubmitDisabled)
	require.Len(t, api.patches, 1)
	assert.Equal(t, models.ID("20"), api.patches[0].TeamID)

	require.NoError(t, session.Handle(ctx, ClientMessage{Type: MessageCloseEdit}))
	assert.Nil(t, rec.last().(render.UsersView).Editing)

	err = session.Handle(ctx, ClientMessage{Type: MessageOpenEdit, UserID: "404"})
	assert.True(t, errors.Is(err, directory.ErrUserNotFound))
}
