package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/vet-scheduler/internal/models"
)

type Store interface {
	SaveAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Filter narrows an audit listing. Zero values mean "any".
type Filter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type Reader interface {
	ListAuditLogs(ctx context.Context, f Filter) ([]models.AuditLog, int64, error)
}

type Logger struct {
	store Store
}

func New(store Store) *Logger {
	return &Logger{store: store}
}

func (l *Logger) Log(
	ctx context.Context,
	userID *string,
	action string,
	entity string,
	entityID *string,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: metaJSON,
	}

	return l.store.SaveAuditLog(ctx, &log)
}
