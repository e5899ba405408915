// File: internal/service/mocks_test.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
	"github.com/RayanDZ04/area-rattrapage/internal/provider"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockServiceConnectionRepository struct{ mock.Mock }

func (m *MockServiceConnectionRepository) FindCurrent(ctx context.Context, userID uuid.UUID, providerName string) (*models.ServiceConnection, error) {
	args := m.Called(ctx, userID, providerName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceConnection), args.Error(1)
}
func (m *MockServiceConnectionRepository) UpdateAccessToken(ctx context.Context, id uuid.UUID, accessToken string, issuedAt time.Time) error {
	return m.Called(ctx, id, accessToken, issuedAt).Error(0)
}

type MockAppletRepository struct{ mock.Mock }

func (m *MockAppletRepository) ListOwnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
func (m *MockAppletRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*models.Applet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Applet), args.Error(1)
}
func (m *MockAppletRepository) UpdateMarker(ctx context.Context, appletID uuid.UUID, marker string) error {
	return m.Called(ctx, appletID, marker).Error(0)
}

type MockAppletRunRepository struct{ mock.Mock }

func (m *MockAppletRunRepository) Create(ctx context.Context, run *models.AppletRun) error {
	return m.Called(ctx, run).Error(0)
}
func (m *MockAppletRunRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AppletRun, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AppletRun), args.Error(1)
}

type MockCredentialProvider struct{ mock.Mock }

func (m *MockCredentialProvider) Obtain(ctx context.Context, userID uuid.UUID, providerName string) (provider.Credential, error) {
	args := m.Called(ctx, userID, providerName)
	return args.Get(0).(provider.Credential), args.Error(1)
}

type MockPipeline struct{ mock.Mock }

func (m *MockPipeline) Run(ctx context.Context, user *models.User, cred provider.Credential, applet *models.Applet) models.RunResult {
	args := m.Called(ctx, user, cred, applet)
	return args.Get(0).(models.RunResult)
}

type MockRunner struct{ mock.Mock }

func (m *MockRunner) RunUser(ctx context.Context, userID uuid.UUID) ([]models.RunResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RunResult), args.Error(1)
}

// Stub capability pair used by pipeline tests. Function fields keep each
// test's behavior local to the test.
type stubProbe struct {
	probeFn    func(ctx context.Context, cred provider.Credential, cfg models.ConfigDoc, lastMarker *string) (*provider.TriggerEvent, error)
	finalizeFn func(ctx context.Context, cred provider.Credential, event *provider.TriggerEvent) error
}

func (s *stubProbe) Probe(ctx context.Context, cred provider.Credential, cfg models.ConfigDoc, lastMarker *string) (*provider.TriggerEvent, error) {
	return s.probeFn(ctx, cred, cfg, lastMarker)
}

// stubFinalizingProbe adds the optional follow-up capability.
type stubFinalizingProbe struct{ stubProbe }

func (s *stubFinalizingProbe) Finalize(ctx context.Context, cred provider.Credential, event *provider.TriggerEvent) error {
	if s.finalizeFn == nil {
		return nil
	}
	return s.finalizeFn(ctx, cred, event)
}

type stubExecutor struct {
	executeFn func(ctx context.Context, cred provider.Credential, cfg models.ConfigDoc) error
}

func (s *stubExecutor) Execute(ctx context.Context, cred provider.Credential, cfg models.ConfigDoc) error {
	return s.executeFn(ctx, cred, cfg)
}
