package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/pkg/logger/types"
	"github.com/studorg/membership-service/pkg/storage"
)

const retentionSchedule = "0 3 * * *"

type retentionApplicationStorage interface {
	GetExpired(ctx context.Context, now time.Time) ([]entity.Application, error)
	Delete(ctx context.Context, id string) error
}

// Retention purges decided applications once their retention period runs
// out, attached documents included. Pending applications are never touched.
type Retention struct {
	logger *types.Logger

	applicationStorage retentionApplicationStorage
	objectStorage      storage.Storage

	cron *cron.Cron
}

func NewRetention(logger *types.Logger, applicationStorage retentionApplicationStorage, objectStorage storage.Storage) *Retention {
	return &Retention{
		logger:             logger,
		applicationStorage: applicationStorage,
		objectStorage:      objectStorage,
		cron:               cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start registers the nightly sweep and runs the scheduler.
func (r *Retention) Start() error {
	if _, err := r.cron.AddFunc(retentionSchedule, func() {
		if err := r.Sweep(context.Background()); err != nil {
			r.logger.Errorf("retention sweep failed: %v", err)
		}
	}); err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("retention sweep scheduled")
	return nil
}

func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}

// Sweep deletes every decided application whose retention window has passed.
// Document removal failures are logged and skipped so one bad object cannot
// stall the whole sweep.
func (r *Retention) Sweep(ctx context.Context) error {
	expired, err := r.applicationStorage.GetExpired(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	for i := range expired {
		application := &expired[i]
		var keys []string
		for _, key := range []string{application.ResumeKey, application.TranscriptKey} {
			if key != "" {
				keys = append(keys, key)
			}
		}
		if len(keys) > 0 {
			if err := r.objectStorage.Remove(ctx, keys); err != nil {
				r.logger.Errorf("failed to remove documents for application %s: %v", application.ID, err)
			}
		}
		if err := r.applicationStorage.Delete(ctx, application.ID); err != nil {
			r.logger.Errorf("failed to purge application %s: %v", application.ID, err)
			continue
		}
		r.logger.Infof("purged application %s (%s, decided %s)", application.ID, application.Type, application.ReviewedAt.Format(time.RFC3339))
	}

	if len(expired) > 0 {
		r.logger.Infof("retention sweep removed %d applications", len(expired))
	}
	return nil
}
