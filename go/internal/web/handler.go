// Package web serves the dashboard pages and the synchronous fallbacks used
// when the live connection is unavailable.
package web

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog/log"

	"github.com/octofit/dashboard/go/internal/dashboard"
	"github.com/octofit/dashboard/go/internal/directory"
	"github.com/octofit/dashboard/go/internal/models"
	"github.com/octofit/dashboard/go/internal/render"
)

type Handler struct {
	renderer  *render.Renderer
	service   *dashboard.Service
	saveDelay time.Duration
}

// NewHandler creates the page handler. saveDelay is how long a saved form
// stays up before the page refreshes.
func NewHandler(renderer *render.Renderer, service *dashboard.Service, saveDelay time.Duration) *Handler {
	return &Handler{
		renderer:  renderer,
		service:   service,
		saveDelay: saveDelay,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleHome)
	mux.HandleFunc("GET /{view}", h.HandleView)
	mux.HandleFunc("GET /fragments/{view}", h.HandleFragment)
	mux.HandleFunc("GET /users/edit/{id}", h.HandleEditForm)
	mux.HandleFunc("POST /users/edit/{id}", h.HandleEditSubmit)
}

func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	setHTML(w)
	if err := h.renderer.Home(w); err != nil {
		internalError(w, err)
	}
}

// HandleView serves the live shell of a view, or with ?sync the page after
// one synchronous load.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	view := r.PathValue("view")
	if !render.KnownView(view) {
		http.NotFound(w, r)
		return
	}

	if !r.URL.Query().Has("sync") {
		setHTML(w)
		if err := h.renderer.Shell(w, view, render.Loading(view)); err != nil {
			internalError(w, err)
		}
		return
	}

	fragment, err := h.service.Load(r.Context(), view)
	if err != nil {
		internalError(w, err)
		return
	}
	setHTML(w)
	if err := h.renderer.Static(w, view, fragment); err != nil {
		internalError(w, err)
	}
}

// HandleFragment renders a view's container content after one load.
func (h *Handler) HandleFragment(w http.ResponseWriter, r *http.Request) {
	fragment, err := h.service.Load(r.Context(), r.PathValue("view"))
	if errors.Is(err, dashboard.ErrUnknownView) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	setHTML(w)
	if err := h.renderer.Fragment(w, fragment); err != nil {
		internalError(w, err)
	}
}

// HandleEditForm renders the users page with the edit form open.
func (h *Handler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	dir := h.service.NewDirectory()
	state := dir.Mount(r.Context())
	if !state.Users.Ready() {
		h.writeUsers(w, r, http.StatusBadGateway, state)
		return
	}
	if err := dir.OpenEdit(models.ID(r.PathValue("id"))); err != nil {
		http.NotFound(w, r)
		return
	}

	h.writeUsers(w, r, http.StatusOK, dir.State())
}

// HandleEditSubmit applies a form post. After a successful save the page
// refreshes to the users list once the save delay elapsed.
func (h *Handler) HandleEditSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := directory.Form{
		FirstName: r.PostForm.Get("first_name"),
		LastName:  r.PostForm.Get("last_name"),
		Email:     r.PostForm.Get("email"),
		TeamID:    r.PostForm.Get("team_id"),
	}

	dir := h.service.NewDirectory()
	state := dir.Mount(r.Context())
	if !state.Users.Ready() {
		h.writeUsers(w, r, http.StatusBadGateway, state)
		return
	}
	if err := dir.OpenEdit(models.ID(r.PathValue("id"))); err != nil {
		http.NotFound(w, r)
		return
	}

	state = dir.Submit(r.Context(), form)
	if state.Save == directory.SaveSucceeded {
		w.Header().Set("Refresh", fmt.Sprintf("%d; url=/users", refreshSeconds(h.saveDelay)))
	}
	h.writeUsers(w, r, http.StatusOK, state)
}

func (h *Handler) writeUsers(w http.ResponseWriter, r *http.Request, status int, state directory.State) {
	view := render.WithCSRFField(render.UsersViewFrom(state), csrf.TemplateField(r))

	setHTML(w)
	w.WriteHeader(status)
	if err := h.renderer.Static(w, render.ViewUsers, view); err != nil {
		log.Error().Err(err).Msg("failed to render users page")
	}
}

// refreshSeconds rounds up, since the Refresh header takes whole seconds.
func refreshSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

func setHTML(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
