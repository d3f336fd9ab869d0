package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang-portfolio/config"
	"golang-portfolio/internal/dto"
	"golang-portfolio/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSchedulerService_Start(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "not configured", spec: ""},
		{name: "descriptor", spec: "@every 5m"},
		{name: "five fields", spec: "*/15 9-15 * * 1-5"},
		{name: "invalid", spec: "every five minutes", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Scheduler: config.Scheduler{RefreshSpec: tt.spec}}
			s := NewSchedulerService(cfg, logger.NewNop(), &mockRefresher{}, &mockNotifier{})

			err := s.Start(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			s.Stop()
		})
	}
}

func TestSchedulerService_RunRefresh(t *testing.T) {
	cfg := &config.Config{Scheduler: config.Scheduler{TimeoutDuration: time.Second}}

	t.Run("success", func(t *testing.T) {
		refresher := &mockRefresher{}
		notifier := &mockNotifier{}
		refresher.On("RefreshPrices", mock.Anything).Return(&dto.RefreshResult{
			Failed: []dto.RefreshFailure{{Symbol: "INFY", Error: "quote not found"}},
		}, nil).Once()

		s := NewSchedulerService(cfg, logger.NewNop(), refresher, notifier)
		require.NoError(t, s.RunRefresh(context.Background()))

		refresher.AssertExpectations(t)
		notifier.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})

	t.Run("failure is reported", func(t *testing.T) {
		refresher := &mockRefresher{}
		notifier := &mockNotifier{}
		refresher.On("RefreshPrices", mock.Anything).Return(nil, errors.New("database is locked")).Once()
		notifier.On("SendMessage", mock.Anything, mock.MatchedBy(func(msg string) bool {
			return strings.Contains(msg, "[ERROR ALERT]") && strings.Contains(msg, "database is locked")
		})).Return(nil).Once()

		s := NewSchedulerService(cfg, logger.NewNop(), refresher, notifier)
		assert.Error(t, s.RunRefresh(context.Background()))

		refresher.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})
}
