package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-portfolio/config"
	"golang-portfolio/internal/dto"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/telegram"

	"github.com/robfig/cron/v3"
)

type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	RunRefresh(ctx context.Context) error
}

type priceRefresher interface {
	RefreshPrices(ctx context.Context) (*dto.RefreshResult, error)
}

type schedulerService struct {
	cfg        *config.Config
	log        *logger.Logger
	cronParser cron.Parser
	cron       *cron.Cron
	refresher  priceRefresher
	notifier   telegram.Notifier
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	refresher priceRefresher,
	notifier telegram.Notifier,
) *schedulerService {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &schedulerService{
		cfg:        cfg,
		log:        log,
		cronParser: parser,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		refresher: refresher,
		notifier:  notifier,
	}
}

// Start registers the periodic price refresh. An empty scheduler.refresh_spec
// leaves the scheduler idle.
func (s *schedulerService) Start(ctx context.Context) error {
	spec := strings.TrimSpace(s.cfg.Scheduler.RefreshSpec)
	if spec == "" {
		s.log.InfoContext(ctx, "Price refresh schedule not configured")
		return nil
	}

	if _, err := s.cronParser.Parse(spec); err != nil {
		return fmt.Errorf("failed to parse cron expression %q: %w", spec, err)
	}

	if _, err := s.cron.AddFunc(spec, func() {
		_ = s.RunRefresh(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule price refresh: %w", err)
	}

	s.cron.Start()
	s.log.InfoContext(ctx, "Price refresh scheduled", logger.StringField("spec", spec))
	return nil
}

func (s *schedulerService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

// RunRefresh runs one refresh bounded by scheduler.timeout_duration and
// reports a failed run to the alert chat.
func (s *schedulerService) RunRefresh(ctx context.Context) error {
	if s.cfg.Scheduler.TimeoutDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Scheduler.TimeoutDuration)
		defer cancel()
	}

	result, err := s.refresher.RefreshPrices(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Scheduled price refresh failed", logger.ErrorField(err))
		message := telegram.FormatErrorAlertMessage(time.Now(), "refresh_prices", err.Error(), "-")
		if sendErr := s.notifier.SendMessage(context.WithoutCancel(ctx), message); sendErr != nil {
			s.log.ErrorContext(ctx, "Failed to send error alert", logger.ErrorField(sendErr))
		}
		return err
	}

	if len(result.Failed) > 0 {
		symbols := make([]string, 0, len(result.Failed))
		for _, f := range result.Failed {
			symbols = append(symbols, f.Symbol)
		}
		s.log.WarnContext(ctx, "Some prices were not refreshed", logger.StringField("symbols", strings.Join(symbols, ",")))
	}
	return nil
}
