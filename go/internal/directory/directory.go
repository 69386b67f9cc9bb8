// Package directory holds the state of the user directory view: the user
// table, the team lookup list and the profile edit form.
package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/octofit/dashboard/go/internal/events"
	"github.com/octofit/dashboard/go/internal/models"
	"github.com/octofit/dashboard/go/internal/viewer"
)

// DefaultSaveDelay is how long the success banner stays up before the form
// closes and the users are fetched again.
const DefaultSaveDelay = 1500 * time.Millisecond

var ErrUserNotFound = errors.New("user not found")

// API defines what the directory needs from the OctoFit API
type API interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	UpdateUser(ctx context.Context, id models.ID, patch models.UserPatch) (*models.User, error)
}

// SaveStatus is the outcome of the last submit of the open form.
type SaveStatus int

const (
	SaveIdle SaveStatus = iota
	SaveFailed
	SaveSucceeded
)

// Form holds the editable profile fields as entered.
type Form struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	TeamID    string `json:"team_id"`
}

// Patch converts the form into the update payload. An empty team is sent as null.
func (f Form) Patch() models.UserPatch {
	return models.UserPatch{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		TeamID:    models.ID(f.TeamID),
	}
}

// FormFromUser seeds the form from a user's current profile.
func FormFromUser(u models.User) Form {
	return Form{
		FirstName: u.FirstName.Or(""),
		LastName:  u.LastName.Or(""),
		Email:     u.Email.Or(""),
		TeamID:    u.TeamID().String(),
	}
}

// Editing is the open edit form.
type Editing struct {
	User models.User
	Form Form
}

// State is a copy of the directory at one instant.
type State struct {
	Users   viewer.Snapshot[models.User]
	Teams   []models.Team
	Editing *Editing
	Save    SaveStatus
	SaveErr string
}

// SubmitDisabled is true while a successful save waits for the form to close.
func (s State) SubmitDisabled() bool {
	return s.Save == SaveSucceeded
}

type Directory struct {
	api       API
	clock     clockwork.Clock
	saveDelay time.Duration
	publisher events.Publisher
	onChange  func(State)
	dispatch  func(func())

	users *viewer.Viewer[models.User]

	// notifyMu orders callbacks so the last one observes the latest state.
	notifyMu sync.Mutex

	mu      sync.Mutex
	mounted context.Context
	teams   []models.Team
	editing *Editing
	save    SaveStatus
	saveErr string
}

type Option func(*Directory)

func WithClock(clock clockwork.Clock) Option {
	return func(d *Directory) { d.clock = clock }
}

func WithSaveDelay(delay time.Duration) Option {
	return func(d *Directory) { d.saveDelay = delay }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(d *Directory) { d.publisher = publisher }
}

// WithOnChange registers a callback run after every state transition. It may
// be called from several goroutines.
func WithOnChange(fn func(State)) Option {
	return func(d *Directory) { d.onChange = fn }
}

// WithDispatcher runs delayed actions through dispatch instead of on the
// timer goroutine.
func WithDispatcher(dispatch func(func())) Option {
	return func(d *Directory) { d.dispatch = dispatch }
}

// New creates an unmounted directory; users are loading and teams empty.
func New(api API, opts ...Option) *Directory {
	d := &Directory{
		api:       api,
		clock:     clockwork.NewRealClock(),
		saveDelay: DefaultSaveDelay,
		publisher: events.NopPublisher{},
		dispatch:  func(fn func()) { fn() },
		mounted:   context.Background(),
		teams:     []models.Team{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.users = viewer.New("users", api.ListUsers)
	return d
}

// Mount fetches users and teams together and returns once both settled.
// ctx bounds the lifetime of the view: completions and delayed actions
// arriving after it ends are dropped. A failed teams fetch leaves the team
// list empty and does not affect the users table.
func (d *Directory) Mount(ctx context.Context) State {
	d.mu.Lock()
	d.mounted = ctx
	d.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.users.Load(ctx)
		d.notify()
	}()
	go func() {
		defer wg.Done()
		d.loadTeams(ctx)
		d.notify()
	}()
	wg.Wait()

	return d.State()
}

func (d *Directory) loadTeams(ctx context.Context) {
	teams, err := d.api.ListTeams(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch teams, team selector will be empty")
		return
	}

	d.mu.Lock()
	d.teams = teams
	d.mu.Unlock()
}

// State returns a copy of the current state.
func (d *Directory) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	state := State{
		Users:   d.users.Snapshot(),
		Teams:   d.teams,
		Save:    d.save,
		SaveErr: d.saveErr,
	}
	if d.editing != nil {
		editing := *d.editing
		state.Editing = &editing
	}
	return state
}

// OpenEdit opens the form for a loaded user, seeded from the user's profile.
func (d *Directory) OpenEdit(id models.ID) error {
	user, ok := d.findUser(id)
	if !ok {
		return ErrUserNotFound
	}

	d.mu.Lock()
	d.editing = &Editing{User: user, Form: FormFromUser(user)}
	d.save = SaveIdle
	d.saveErr = ""
	d.mu.Unlock()

	d.notify()
	return nil
}

// CloseEdit discards the form without saving.
func (d *Directory) CloseEdit() {
	d.mu.Lock()
	d.editing = nil
	d.save = SaveIdle
	d.saveErr = ""
	d.mu.Unlock()

	d.notify()
}

// Submit sends the form as a partial update of the user being edited. On
// failure the form stays open with the entered values. On success the form
// closes after the save delay and the users are fetched again. Submits are
// ignored while no form is open or a successful save is pending.
func (d *Directory) Submit(ctx context.Context, form Form) State {
	d.mu.Lock()
	if d.editing == nil || d.save == SaveSucceeded {
		d.mu.Unlock()
		return d.State()
	}
	d.editing.Form = form
	d.save = SaveIdle
	d.saveErr = ""
	userID := d.editing.User.ID
	d.mu.Unlock()

	d.notify()

	_, err := d.api.UpdateUser(ctx, userID, form.Patch())

	d.mu.Lock()
	mounted := d.mounted
	if mounted.Err() != nil {
		d.mu.Unlock()
		return d.State()
	}
	stillEditing := d.editing != nil && d.editing.User.ID == userID
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to update user")
		if stillEditing {
			d.save = SaveFailed
			d.saveErr = err.Error()
		}
		d.mu.Unlock()
		d.notify()
		return d.State()
	}
	if stillEditing {
		d.save = SaveSucceeded
	}
	d.mu.Unlock()

	log.Info().Str("user_id", userID.String()).Msg("updated user")
	d.publishUpdated(ctx, userID, form.TeamID)
	d.clock.AfterFunc(d.saveDelay, func() {
		d.dispatch(func() { d.finishSave(mounted) })
	})

	d.notify()
	return d.State()
}

// finishSave closes the form and fetches the users from scratch.
func (d *Directory) finishSave(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	d.mu.Lock()
	d.editing = nil
	d.save = SaveIdle
	d.saveErr = ""
	d.mu.Unlock()

	d.notify()
	d.users.Reload(ctx)
	if ctx.Err() != nil {
		return
	}
	d.notify()
}

func (d *Directory) publishUpdated(ctx context.Context, userID models.ID, teamID string) {
	event, err := events.NewEvent(events.EventTypeUserUpdated, events.UserUpdatedPayload{
		UserID: userID.String(),
		TeamID: teamID,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to build user updated event")
		return
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to publish user updated event")
	}
}

func (d *Directory) findUser(id models.ID) (models.User, bool) {
	snap := d.users.Snapshot()
	for _, u := range snap.Items {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (d *Directory) notify() {
	if d.onChange == nil {
		return
	}
	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()
	d.onChange(d.State())
}
