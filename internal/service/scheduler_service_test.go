// File: internal/service/scheduler_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
)

func TestScheduler_Tick_RunsEveryOwner(t *testing.T) {
	ctx := context.Background()
	owners := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	applets := new(MockAppletRepository)
	applets.On("ListOwnerIDs", ctx).Return(owners, nil).Once()

	runner := new(MockRunner)
	for _, id := range owners {
		runner.On("RunUser", ctx, id).Return([]models.RunResult{}, nil).Once()
	}

	s := NewSchedulerService(applets, runner, time.Second, zap.NewNop())
	s.Tick(ctx)

	applets.AssertExpectations(t)
	runner.AssertExpectations(t)
}

func TestScheduler_Tick_OneFailingUserDoesNotStopOthers(t *testing.T) {
	ctx := context.Background()
	owners := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	applets := new(MockAppletRepository)
	applets.On("ListOwnerIDs", ctx).Return(owners, nil).Once()

	runner := new(MockRunner)
	runner.On("RunUser", ctx, owners[0]).Return(nil, assert.AnError).Once()
	runner.On("RunUser", ctx, owners[1]).
		Run(func(mock.Arguments) { panic("connection pool exhausted") }).
		Return([]models.RunResult{}, nil).Once()
	runner.On("RunUser", ctx, owners[2]).Return([]models.RunResult{}, nil).Once()

	s := NewSchedulerService(applets, runner, time.Second, zap.NewNop())
	s.Tick(ctx)

	runner.AssertExpectations(t)
}

func TestScheduler_Tick_OwnerEnumerationFailureSkipsTick(t *testing.T) {
	ctx := context.Background()

	applets := new(MockAppletRepository)
	applets.On("ListOwnerIDs", ctx).Return(nil, assert.AnError).Once()

	runner := new(MockRunner)

	s := NewSchedulerService(applets, runner, time.Second, zap.NewNop())
	s.Tick(ctx)

	runner.AssertNotCalled(t, "RunUser", mock.Anything, mock.Anything)
}

func TestScheduler_StartStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ticked := make(chan struct{}, 10)
	applets := new(MockAppletRepository)
	applets.On("ListOwnerIDs", mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case ticked <- struct{}{}:
			default:
			}
		}).
		Return([]uuid.UUID{}, nil)

	runner := new(MockRunner)

	s := NewSchedulerService(applets, runner, 10*time.Millisecond, zap.NewNop())
	s.Start(ctx)

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler never ticked")
	}
	cancel()
	// Drain any in-flight tick, then verify the loop has gone quiet.
	time.Sleep(50 * time.Millisecond)
	calls := len(applets.Calls)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, len(applets.Calls))
}

func TestScheduler_DefaultsIntervalWhenUnset(t *testing.T) {
	s := NewSchedulerService(new(MockAppletRepository), new(MockRunner), 0, zap.NewNop())
	assert.Equal(t, 30*time.Second, s.interval)
}
