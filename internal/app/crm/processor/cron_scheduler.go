package processor

import (
	"context"

	"clinicrm/internal/app/crm/service"
	"clinicrm/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler периодически сканирует follow-up с наступившим сроком
// и публикует напоминания в Kafka
type CronScheduler struct {
	cron        *cron.Cron
	followUpSvc service.FollowUpServiceInterface
}

func NewCronScheduler(followUpSvc service.FollowUpServiceInterface) *CronScheduler {
	return &CronScheduler{
		cron:        cron.New(),
		followUpSvc: followUpSvc,
	}
}

// Start регистрирует задачу по расписанию и запускает планировщик
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("starting follow-up reminder scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		sent, err := s.followUpSvc.PublishDueReminders(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("follow-up reminder scan failed")
			return
		}
		if sent > 0 {
			logger.Info().Int("sent", sent).Msg("follow-up reminders published")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop останавливает планировщик, дожидаясь завершения текущей задачи
func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("follow-up reminder scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
