// Package live serves dashboard views over WebSocket. Each connection mounts
// its own session; closing the connection unmounts it.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/octofit/dashboard/go/internal/dashboard"
	"github.com/octofit/dashboard/go/internal/directory"
	"github.com/octofit/dashboard/go/internal/observability"
	"github.com/octofit/dashboard/go/internal/render"
)

// SessionFactory creates the session a connection mounts.
type SessionFactory interface {
	NewSession(view string, push dashboard.PushFunc, dirOptions ...directory.Option) (dashboard.Session, error)
}

// ConnectionManager manages WebSocket connections grouped by view
type ConnectionManager struct {
	viewConnections map[string]map[*Connection]bool
	mu              sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig
	sessions SessionFactory
	renderer *render.Renderer
}

// Connection is one browser tab showing a live view
type Connection struct {
	ID      string
	View    string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time

	// csrfField is empty unless the upgrade passed through CSRF protection
	csrfField template.HTML

	ctx    context.Context
	cancel context.CancelFunc
	inbox  chan dashboard.ClientMessage
	tasks  chan func()

	sendMu sync.Mutex
	closed bool
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  8 * 1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		SendBufferSize:  64,
		CheckOrigin:     OriginChecker(nil, true),
	}
}

func NewConnectionManager(config ConnectionConfig, sessions SessionFactory, renderer *render.Renderer) *ConnectionManager {
	return &ConnectionManager{
		viewConnections: make(map[string]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:   config,
		sessions: sessions,
		renderer: renderer,
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and mounts view on it
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, view string) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	// the hijacked connection outlives the request context
	ctx, cancel := context.WithCancel(context.Background())
	connection := &Connection{
		ID:          uuid.New().String(),
		View:        view,
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBufferSize),
		Manager:     cm,
		ConnectedAt: time.Now(),
		csrfField:   csrf.TemplateField(r),
		ctx:         ctx,
		cancel:      cancel,
		inbox:       make(chan dashboard.ClientMessage, 16),
		tasks:       make(chan func()),
	}

	session, err := cm.sessions.NewSession(view, connection.push, directory.WithDispatcher(connection.dispatch))
	if err != nil {
		cancel()
		conn.Close()
		return fmt.Errorf("failed to create session: %w", err)
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()
	go connection.run(session)

	log.Info().
		Str("connection_id", connection.ID).
		Str("view", view).
		Msg("live connection established")

	return nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.viewConnections[conn.View] == nil {
		cm.viewConnections[conn.View] = make(map[*Connection]bool)
	}
	cm.viewConnections[conn.View][conn] = true
	observability.LiveSessionOpened(conn.View)

	log.Debug().
		Str("connection_id", conn.ID).
		Str("view", conn.View).
		Int("view_connections", len(cm.viewConnections[conn.View])).
		Msg("connection registered")
}

// unregisterConnection unmounts the session and stops the write pump
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	connections, exists := cm.viewConnections[conn.View]
	if !exists {
		return
	}
	if _, exists := connections[conn]; !exists {
		return
	}

	delete(connections, conn)
	if len(connections) == 0 {
		delete(cm.viewConnections, conn.View)
	}

	conn.cancel()
	conn.sendMu.Lock()
	conn.closed = true
	close(conn.Send)
	conn.sendMu.Unlock()
	observability.LiveSessionClosed(conn.View)

	log.Info().
		Str("connection_id", conn.ID).
		Str("view", conn.View).
		Dur("connected_for", time.Since(conn.ConnectedAt)).
		Msg("connection unregistered")
}

// Stats is the JSON body of the stats endpoint.
type Stats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveViews      int            `json:"active_views"`
	ViewConnections  map[string]int `json:"view_connections"`
}

func (cm *ConnectionManager) GetConnectionStats() Stats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := Stats{
		ActiveViews:     len(cm.viewConnections),
		ViewConnections: make(map[string]int, len(cm.viewConnections)),
	}
	for view, connections := range cm.viewConnections {
		stats.TotalConnections += len(connections)
		stats.ViewConnections[view] = len(connections)
	}
	return stats
}

// push renders a fragment and queues it for the write pump. Fragments
// pushed after the connection closed are dropped.
func (c *Connection) push(f render.Fragment) {
	html, err := c.Manager.renderer.FragmentString(render.WithCSRFField(f, c.csrfField))
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to render view")
		return
	}
	data, err := json.Marshal(dashboard.NewRenderMessage(c.View, html))
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to marshal render message")
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Warn().
			Str("connection_id", c.ID).
			Msg("connection send buffer full, closing connection")
		c.Conn.Close()
	}
}

// dispatch hands fn to the session goroutine. It is dropped once the
// connection closed.
func (c *Connection) dispatch(fn func()) {
	select {
	case c.tasks <- fn:
	case <-c.ctx.Done():
	}
}

// run mounts the session, then applies client messages and delayed actions
// one at a time
func (c *Connection) run(session dashboard.Session) {
	session.Mount(c.ctx)

	for {
		select {
		case <-c.ctx.Done():
			return
		case fn := <-c.tasks:
			fn()
		case msg := <-c.inbox:
			if err := session.Handle(c.ctx, msg); err != nil {
				log.Warn().
					Err(err).
					Str("connection_id", c.ID).
					Str("type", string(msg.Type)).
					Msg("failed to handle client message")
			}
		}
	}
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			return
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage decodes a client message and hands it to the session goroutine
func (c *Connection) handleClientMessage(message []byte) {
	var msg dashboard.ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", c.ID).
			Msg("ignoring malformed client message")
		return
	}

	log.Debug().
		Str("connection_id", c.ID).
		Str("type", string(msg.Type)).
		Msg("received client message")

	select {
	case c.inbox <- msg:
	case <-c.ctx.Done():
	}
}
