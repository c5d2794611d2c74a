package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/solarsync/internal/domain"
)

// PGSource listens on Postgres NOTIFY channels fed by the realtime_notify_*
// triggers. Every subscription holds its own pooled connection.
type PGSource struct {
	pool   *pgxpool.Pool
	prefix string
	log    *slog.Logger
	now    func() time.Time
}

// NewPGSource creates a PGSource. prefix must match the trigger argument
// used in the migrations (e.g. "realtime_").
func NewPGSource(pool *pgxpool.Pool, prefix string, log *slog.Logger) *PGSource {
	return &PGSource{
		pool:   pool,
		prefix: prefix,
		log:    log.With("component", "pgsource"),
		now:    time.Now,
	}
}

// ChannelName returns the NOTIFY channel carrying changes of table.
func ChannelName(prefix, table string) string {
	return prefix + table
}

// Subscribe acquires a connection, LISTENs on the table's channel and
// dispatches routed events to h from a background goroutine.
func (s *PGSource) Subscribe(ctx context.Context, topic Topic, h Handler) (Subscription, error) {
	if err := topic.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSubscription, err)
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire connection: %w", domain.ErrSubscription, err)
	}

	channel := pgx.Identifier{ChannelName(s.prefix, topic.Table)}.Sanitize()
	if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("%w: listen %s: %w", domain.ErrSubscription, channel, err)
	}

	// The listener outlives ctx; it ends on Unsubscribe or a connection error.
	lctx, cancel := context.WithCancel(context.Background())
	sub := newSubscription(cancel)

	go s.listen(lctx, conn, topic, h, sub)

	s.log.Debug("subscribed",
		slog.String("table", topic.Table),
		slog.String("filter", topic.Filter.String()),
	)
	return sub, nil
}

func (s *PGSource) listen(ctx context.Context, conn *pgxpool.Conn, topic Topic, h Handler, sub *subscription) {
	defer func() {
		uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// A cancelled WaitForNotification closes the connection; UNLISTEN
		// then fails and the pool discards the connection on Release.
		_, _ = conn.Exec(uctx, "UNLISTEN *")
		conn.Release()
	}()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				sub.finish(nil)
				return
			}
			s.log.Warn("change feed dropped",
				slog.String("table", topic.Table),
				slog.String("error", err.Error()),
			)
			sub.finish(fmt.Errorf("%w: %s: %w", domain.ErrSubscription, topic.Table, err))
			return
		}

		ev, err := DecodeNotification([]byte(n.Payload), s.now())
		if err != nil {
			s.log.Warn("undecodable notification",
				slog.String("channel", n.Channel),
				slog.String("error", err.Error()),
			)
			continue
		}

		if routed, ok := route(topic, ev); ok {
			h(routed)
		}
	}
}

// notification is the payload written by the realtime_notify_* triggers.
type notification struct {
	Table     string          `json:"table"`
	Type      string          `json:"type"`
	Record    json.RawMessage `json:"record"`
	OldRecord json.RawMessage `json:"old_record"`
}

// DecodeNotification parses a trigger payload. Numbers are kept as
// json.Number so money columns keep their precision.
func DecodeNotification(payload []byte, receivedAt time.Time) (ChangeEvent, error) {
	var n notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode notification: %w", err)
	}

	op := Op(n.Type)
	if !op.IsValid() {
		return ChangeEvent{}, fmt.Errorf("decode notification: unknown type %q", n.Type)
	}
	if n.Table == "" {
		return ChangeEvent{}, fmt.Errorf("decode notification: missing table")
	}

	newRow, err := decodeRow(n.Record)
	if err != nil {
		return ChangeEvent{}, fmt.Errorf("decode record: %w", err)
	}
	oldRow, err := decodeRow(n.OldRecord)
	if err != nil {
		return ChangeEvent{}, fmt.Errorf("decode old_record: %w", err)
	}

	return ChangeEvent{
		Table:      n.Table,
		Op:         op,
		New:        newRow,
		Old:        oldRow,
		ReceivedAt: receivedAt,
	}, nil
}

func decodeRow(raw json.RawMessage) (Row, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var row Row
	if err := dec.Decode(&row); err != nil {
		return nil, err
	}
	return row, nil
}

// QueueUsage reports the fraction of the server's NOTIFY queue in use. A
// full queue makes pg_notify fail, which aborts the writing transaction.
func (s *PGSource) QueueUsage(ctx context.Context) (float64, error) {
	var usage float64
	if err := s.pool.QueryRow(ctx, "SELECT pg_notification_queue_usage()").Scan(&usage); err != nil {
		return 0, fmt.Errorf("notification queue usage: %w", err)
	}
	return usage, nil
}
