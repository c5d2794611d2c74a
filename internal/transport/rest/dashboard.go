package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/service/dashboard"
)

type dashboardService interface {
	Open(ctx context.Context, scope domain.Scope, domains ...dashboard.Domain) (*dashboard.Session, error)
	Snapshot(ctx context.Context, scope domain.Scope, d dashboard.Domain) (dashboard.Snapshot, error)
}

// liveSession is the part of a dashboard session a stream needs.
type liveSession interface {
	Changes() <-chan dashboard.Domain
	Snapshot(d dashboard.Domain) (dashboard.Snapshot, error)
	AckAlerts()
	Close()
}

// SessionHeader carries the id of a stream's session, used to address it
// from other requests such as acknowledging alerts.
const SessionHeader = "X-Session-Id"

// DashboardHandler serves dashboard snapshots and server-sent event streams.
type DashboardHandler struct {
	snapshot  func(ctx context.Context, scope domain.Scope, d dashboard.Domain) (dashboard.Snapshot, error)
	open      func(ctx context.Context, scope domain.Scope, d dashboard.Domain) (liveSession, error)
	heartbeat time.Duration
	log       *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]streamEntry
}

type streamEntry struct {
	scope   domain.Scope
	session liveSession
}

// NewDashboardHandler creates a DashboardHandler. Streams send a comment
// every heartbeat to keep intermediaries from closing idle connections.
func NewDashboardHandler(svc dashboardService, heartbeat time.Duration, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		snapshot: svc.Snapshot,
		open: func(ctx context.Context, scope domain.Scope, d dashboard.Domain) (liveSession, error) {
			sess, err := svc.Open(ctx, scope, d)
			if err != nil {
				return nil, err
			}
			return sess, nil
		},
		heartbeat: heartbeat,
		log:       logger.With("handler", "dashboard"),
		sessions:  make(map[uuid.UUID]streamEntry),
	}
}

// Snapshot handles GET /v1/dashboard/{domain}.
func (h *DashboardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	scope, d, err := h.target(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	snap, err := h.snapshot(r.Context(), scope, d)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Stream handles GET /v1/dashboard/{domain}/stream. It sends the current
// snapshot, then a new one after every change, until the client goes away.
func (h *DashboardHandler) Stream(w http.ResponseWriter, r *http.Request) {
	scope, d, err := h.target(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rc := http.NewResponseController(w)
	ctx := r.Context()

	sess, err := h.open(ctx, scope, d)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	id := h.register(scope, sess)
	defer h.unregister(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set(SessionHeader, id.String())
	w.WriteHeader(http.StatusOK)

	if err := h.send(w, rc, sess, d); err != nil {
		h.log.DebugContext(ctx, "stream write failed", slog.String("error", err.Error()))
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case changed, ok := <-sess.Changes():
			if !ok {
				return
			}
			if err := h.send(w, rc, sess, changed); err != nil {
				h.log.DebugContext(ctx, "stream write failed", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// AckAlerts handles POST /v1/dashboard/sessions/{id}/ack-alerts. Only the
// caller that opened the stream may acknowledge its alerts.
func (h *DashboardHandler) AckAlerts(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	h.mu.Lock()
	entry, ok := h.sessions[id]
	h.mu.Unlock()
	if !ok || entry.scope != scope {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	entry.session.AckAlerts()
	w.WriteHeader(http.StatusNoContent)
}

// OpenStreams reports the number of live streams.
func (h *DashboardHandler) OpenStreams() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *DashboardHandler) target(r *http.Request) (domain.Scope, dashboard.Domain, error) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		return domain.Scope{}, "", err
	}
	d, err := dashboard.ParseDomain(r.PathValue("domain"))
	if err != nil {
		return domain.Scope{}, "", err
	}
	return scope, d, nil
}

func (h *DashboardHandler) register(scope domain.Scope, sess liveSession) uuid.UUID {
	id := uuid.New()
	h.mu.Lock()
	h.sessions[id] = streamEntry{scope: scope, session: sess}
	h.mu.Unlock()
	return id
}

func (h *DashboardHandler) unregister(id uuid.UUID) {
	h.mu.Lock()
	entry, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		entry.session.Close()
	}
}

// send writes one snapshot event. The event id is the snapshot version.
func (h *DashboardHandler) send(w http.ResponseWriter, rc *http.ResponseController, sess liveSession, d dashboard.Domain) error {
	snap, err := sess.Snapshot(d)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snap.Version, data); err != nil {
		return err
	}
	return rc.Flush()
}
