// File: internal/handler/http/engine_handler_test.go
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
)

type MockRunner struct{ mock.Mock }

func (m *MockRunner) RunUser(ctx context.Context, userID uuid.UUID) ([]models.RunResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RunResult), args.Error(1)
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

func setupEngineRouter(runner *MockRunner, runs *MockAppletRunRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewEngineHandler(runner, runs, 50, zap.NewNop())
	router := gin.New()
	router.POST("/api/v1/users/:user_id/run", handler.RunNow)
	router.GET("/api/v1/users/:user_id/runs", handler.ListRuns)
	return router
}

func TestEngineHandler_RunNow_ReturnsResults(t *testing.T) {
	userID := uuid.New()
	appletID := uuid.New()

	runner := new(MockRunner)
	runner.On("RunUser", mock.Anything, userID).Return([]models.RunResult{
		{AppletID: appletID, Outcome: models.RunOutcomeSuccess, Message: "reaction executed"},
	}, nil).Once()

	router := setupEngineRouter(runner, new(MockAppletRunRepository))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users/"+userID.String()+"/run", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Results []models.RunResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, appletID, body.Results[0].AppletID)
	assert.Equal(t, models.RunOutcomeSuccess, body.Results[0].Outcome)
	runner.AssertExpectations(t)
}

func TestEngineHandler_RunNow_InvalidUserID(t *testing.T) {
	runner := new(MockRunner)
	router := setupEngineRouter(runner, new(MockAppletRunRepository))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users/not-a-uuid/run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_user_id")
	runner.AssertNotCalled(t, "RunUser", mock.Anything, mock.Anything)
}

func TestEngineHandler_RunNow_RunnerFailure(t *testing.T) {
	userID := uuid.New()
	runner := new(MockRunner)
	runner.On("RunUser", mock.Anything, userID).Return(nil, assert.AnError).Once()

	router := setupEngineRouter(runner, new(MockAppletRunRepository))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users/"+userID.String()+"/run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "run_failed")
}

func TestEngineHandler_ListRuns_DefaultLimit(t *testing.T) {
	userID := uuid.New()
	runs := new(MockAppletRunRepository)
	runs.On("ListByUser", mock.Anything, userID, 50).Return([]*models.AppletRun{
		{ID: 2, UserID: userID, AppletID: uuid.New(), Outcome: models.RunOutcomeSuccess, Message: "reaction executed", CreatedAt: time.Now().UTC()},
		{ID: 1, UserID: userID, AppletID: uuid.New(), Outcome: models.RunOutcomeSkipped, Message: "no new event", CreatedAt: time.Now().UTC()},
	}, nil).Once()

	router := setupEngineRouter(new(MockRunner), runs)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String()+"/runs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Runs []*models.AppletRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Runs, 2)
	assert.Equal(t, int64(2), body.Runs[0].ID)
	runs.AssertExpectations(t)
}

func TestEngineHandler_ListRuns_LimitCappedAtMaximum(t *testing.T) {
	userID := uuid.New()
	runs := new(MockAppletRunRepository)
	runs.On("ListByUser", mock.Anything, userID, 50).Return([]*models.AppletRun{}, nil).Once()

	router := setupEngineRouter(new(MockRunner), runs)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String()+"/runs?limit=500", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	runs.AssertExpectations(t)
}

func TestEngineHandler_ListRuns_SmallerLimitHonored(t *testing.T) {
	userID := uuid.New()
	runs := new(MockAppletRunRepository)
	runs.On("ListByUser", mock.Anything, userID, 5).Return([]*models.AppletRun{}, nil).Once()

	router := setupEngineRouter(new(MockRunner), runs)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String()+"/runs?limit=5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	runs.AssertExpectations(t)
}

func TestEngineHandler_ListRuns_InvalidLimit(t *testing.T) {
	userID := uuid.New()
	runs := new(MockAppletRunRepository)

	router := setupEngineRouter(new(MockRunner), runs)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String()+"/runs?limit=-3", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_limit")
	runs.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngineHandler_ListRuns_NilBecomesEmptyArray(t *testing.T) {
	userID := uuid.New()
	runs := new(MockAppletRunRepository)
	runs.On("ListByUser", mock.Anything, userID, 50).Return([]*models.AppletRun(nil), nil).Once()

	router := setupEngineRouter(new(MockRunner), runs)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String()+"/runs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"runs":[]`)
}
