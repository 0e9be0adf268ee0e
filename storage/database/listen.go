package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mealmatch/mealmatch/core"
	"github.com/mealmatch/mealmatch/core/admin"
	"github.com/mealmatch/mealmatch/core/feedback"
	"github.com/mealmatch/mealmatch/core/profile"
)

// insertChannel matches the pg_notify channel used by the insert triggers.
const insertChannel = "mealmatch_inserts"

type notifyPayload struct {
	Table  string          `json:"table"`
	Record json.RawMessage `json:"record"`
}

// Listener bridges Postgres NOTIFY into typed admin.Inserted events.
// Decoding failures cost the single notification, never the feed.
type Listener struct {
	conf   *core.Config
	logger core.Logger
	apply  func(admin.Inserted)
}

func NewListener(conf *core.Config, logger core.Logger, apply func(admin.Inserted)) *Listener {
	return &Listener{conf: conf, logger: logger, apply: apply}
}

// Run blocks until ctx is cancelled. lib/pq handles reconnects; a nil
// notification marks a reconnect, after which rows inserted while away are
// only picked up by the next full sync.
func (l *Listener) Run(ctx context.Context) {
	pl := pq.NewListener(ConnString(l.conf), 10*time.Second, time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				l.logger.Error(fmt.Sprintf("listener event %d: %v", ev, err), err)
			}
		})
	defer func() { _ = pl.Close() }()

	if err := pl.Listen(insertChannel); err != nil {
		l.logger.Error(fmt.Sprintf("listening on %s: %v", insertChannel, err), err)
		return
	}
	l.logger.Info("insert feed connected")

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-pl.Notify:
			if n == nil { // reconnect marker
				continue
			}
			l.dispatch([]byte(n.Extra))
		case <-time.After(90 * time.Second):
			go func() { _ = pl.Ping() }()
		}
	}
}

func (l *Listener) dispatch(raw []byte) {
	var payload notifyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		l.logger.Error(fmt.Sprintf("decoding notification: %v", err), err)
		return
	}

	switch payload.Table {
	case "profile":
		var p profile.Profile
		if err := json.Unmarshal(payload.Record, &p); err != nil {
			l.logger.Error(fmt.Sprintf("decoding profile notification: %v", err), err)
			return
		}
		l.apply(admin.Inserted{Table: admin.TableProfile, Profile: &p})
	case "feedback":
		var fb feedback.Feedback
		if err := json.Unmarshal(payload.Record, &fb); err != nil {
			l.logger.Error(fmt.Sprintf("decoding feedback notification: %v", err), err)
			return
		}
		l.apply(admin.Inserted{Table: admin.TableFeedback, Feedback: &fb})
	default:
		l.logger.Warn("notification for unknown table: " + payload.Table)
	}
}
