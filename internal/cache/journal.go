// internal/cache/journal.go
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Journal publishes match events to the historian queue. Publish
// failures are logged and dropped; the journal is advisory and never
// blocks match progress.
type Journal struct {
	Log *logrus.Logger
}

func (j Journal) Record(ctx context.Context, matchID, actor uuid.UUID, kind string, payload map[string]interface{}) {
	rec := MatchEventRecord{
		MatchID:      matchID,
		ActorUserID:  actor,
		EventType:    kind,
		EventPayload: payload,
		Timestamp:    time.Now().UnixMilli(),
	}
	if err := PublishMatchEvent(ctx, rec); err != nil && j.Log != nil {
		j.Log.WithError(err).WithField("match", matchID).Warn("failed to publish match event")
	}
}
