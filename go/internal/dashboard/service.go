// Package dashboard mounts dashboard views: one session per open view, fed by
// the OctoFit API and rendered after every state transition.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/octofit/dashboard/go/internal/directory"
	"github.com/octofit/dashboard/go/internal/models"
	"github.com/octofit/dashboard/go/internal/render"
	"github.com/octofit/dashboard/go/internal/viewer"
)

var (
	ErrUnknownView        = errors.New("unknown view")
	ErrUnsupportedMessage = errors.New("message not supported by view")
)

// API is the read and update surface of the OctoFit API used by the views.
type API interface {
	directory.API
	ListActivities(ctx context.Context) ([]models.Activity, error)
	ListLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
}

// PushFunc receives the re-rendered view after each transition. It may be
// called from several goroutines.
type PushFunc func(render.Fragment)

// Session is one mounted view.
type Session interface {
	View() string
	// Mount loads the view and returns once the initial fetches settled.
	Mount(ctx context.Context)
	Handle(ctx context.Context, msg ClientMessage) error
}

type Service struct {
	api        API
	dirOptions []directory.Option
}

// NewService creates the session factory. Directory options apply to every
// users view.
func NewService(api API, dirOptions ...directory.Option) *Service {
	return &Service{api: api, dirOptions: dirOptions}
}

// NewSession creates an unmounted session for view. Directory options apply
// to the users view only.
func (s *Service) NewSession(view string, push PushFunc, dirOptions ...directory.Option) (Session, error) {
	switch view {
	case render.ViewUsers:
		return s.newUsersSession(push, dirOptions...), nil
	case render.ViewActivities:
		return newCollectionSession(view, s.api.ListActivities, render.ActivitiesView, push), nil
	case render.ViewTeams:
		return newCollectionSession(view, s.api.ListTeams, render.TeamsView, push), nil
	case render.ViewLeaderboard:
		return newCollectionSession(view, s.api.ListLeaderboard, render.LeaderboardView, push), nil
	case render.ViewWorkouts:
		return newCollectionSession(view, s.api.ListWorkouts, render.WorkoutsView, push), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
}

// NewDirectory creates an unmounted user directory with the service options.
func (s *Service) NewDirectory(opts ...directory.Option) *directory.Directory {
	all := make([]directory.Option, 0, len(s.dirOptions)+len(opts))
	all = append(all, s.dirOptions...)
	all = append(all, opts...)
	return directory.New(s.api, all...)
}

// Load mounts view once and returns its settled fragment.
func (s *Service) Load(ctx context.Context, view string) (render.Fragment, error) {
	var (
		mu   sync.Mutex
		last render.Fragment
	)
	session, err := s.NewSession(view, func(f render.Fragment) {
		mu.Lock()
		defer mu.Unlock()
		last = f
	})
	if err != nil {
		return nil, err
	}

	session.Mount(ctx)

	mu.Lock()
	defer mu.Unlock()
	return last, nil
}

type collectionSession[T any] struct {
	viewer *viewer.Viewer[T]
	build  func(viewer.Snapshot[T]) render.View
	push   PushFunc
}

func newCollectionSession[T any](name string, fetch viewer.FetchFunc[T], build func(viewer.Snapshot[T]) render.View, push PushFunc) *collectionSession[T] {
	return &collectionSession[T]{
		viewer: viewer.New(name, fetch),
		build:  build,
		push:   push,
	}
}

func (s *collectionSession[T]) View() string {
	return s.viewer.Name()
}

func (s *collectionSession[T]) Mount(ctx context.Context) {
	s.push(s.build(s.viewer.Snapshot()))
	snap := s.viewer.Load(ctx)
	if ctx.Err() != nil {
		return
	}
	s.push(s.build(snap))
}

func (s *collectionSession[T]) Handle(ctx context.Context, msg ClientMessage) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedMessage, msg.Type)
}

type usersSession struct {
	dir  *directory.Directory
	push PushFunc
}

func (s *Service) newUsersSession(push PushFunc, opts ...directory.Option) *usersSession {
	session := &usersSession{push: push}
	opts = append(opts, directory.WithOnChange(func(state directory.State) {
		push(render.UsersViewFrom(state))
	}))
	session.dir = s.NewDirectory(opts...)
	return session
}

func (s *usersSession) View() string {
	return render.ViewUsers
}

func (s *usersSession) Mount(ctx context.Context) {
	s.push(render.UsersViewFrom(s.dir.State()))
	s.dir.Mount(ctx)
}

func (s *usersSession) Handle(ctx context.Context, msg ClientMessage) error {
	switch msg.Type {
	case MessageOpenEdit:
		return s.dir.OpenEdit(msg.UserID)
	case MessageSubmit:
		s.dir.Submit(ctx, msg.Form)
		return nil
	case MessageCloseEdit:
		s.dir.CloseEdit()
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMessage, msg.Type)
	}
}
