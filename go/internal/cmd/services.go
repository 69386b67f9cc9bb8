package main

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/octofit/dashboard/go/clients/octofit_client"
	"github.com/octofit/dashboard/go/internal/config"
	"github.com/octofit/dashboard/go/internal/dashboard"
	"github.com/octofit/dashboard/go/internal/directory"
	"github.com/octofit/dashboard/go/internal/events"
	"github.com/octofit/dashboard/go/internal/live"
	"github.com/octofit/dashboard/go/internal/observability"
	"github.com/octofit/dashboard/go/internal/render"
)

type Services struct {
	Client    *octofit_client.OctofitClient
	Renderer  *render.Renderer
	Dashboard *dashboard.Service
	Live      *live.ConnectionManager

	nc *nats.Conn
}

func newAPIClient(cfg config.Config) *octofit_client.OctofitClient {
	client := octofit_client.NewOctofitClient(cfg.APIBaseURL)
	if cfg.APITimeout > 0 {
		client.SetTimeout(cfg.APITimeout)
	}
	client.SetObserver(observability.ObserveUpstream)
	return client
}

func setupServices(cfg config.Config) (*Services, error) {
	// API client → sessions → renderer → live connections
	client := newAPIClient(cfg)

	renderer, err := render.New(cfg.Dashboard)
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.NopPublisher{}
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = events.ConnectNATS(cfg.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set up event publisher: %w", err)
		}
		publisher = events.NewNATSPublisher(nc, cfg.NATSSubjectPrefix)
		log.Info().Str("url", cfg.NATSURL).Msg("publishing user updates to NATS")
	}
	publisher = events.NewMetricPublisher(publisher, events.MetricsFunc(observability.RecordEventPublished))

	svc := dashboard.NewService(client,
		directory.WithSaveDelay(cfg.SaveCloseDelay),
		directory.WithPublisher(publisher),
	)

	liveConfig := live.DefaultConnectionConfig()
	// edits over the socket carry no CSRF token
	liveConfig.CheckOrigin = live.OriginChecker(cfg.CORSAllowedOrigins, cfg.CSRFKey != "")

	return &Services{
		Client:    client,
		Renderer:  renderer,
		Dashboard: svc,
		Live:      live.NewConnectionManager(liveConfig, svc, renderer),
		nc:        nc,
	}, nil
}

func (s *Services) Close() {
	if s.nc != nil {
		if err := s.nc.Drain(); err != nil {
			log.Warn().Err(err).Msg("failed to drain NATS connection")
		}
	}
}
