package page

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bozo-bus/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bozo-bus/internal/models"
	"github.com/magabrotheeeer/bozo-bus/internal/state"
	"github.com/magabrotheeeer/bozo-bus/internal/view"
)

type MockStatus struct {
	mock.Mock
}

func (m *MockStatus) GetUserStatus(ctx context.Context, email string) (*models.SubscriptionStatus, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.SubscriptionStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockConditions struct {
	mock.Mock
}

func (m *MockConditions) GetConditions(ctx context.Context) (*models.Conditions, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*models.Conditions), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(t *testing.T, status *MockStatus, conditions *MockConditions, identity models.Identity, target string) *httptest.ResponseRecorder {
	t.Helper()
	rnd, err := view.New()
	require.NoError(t, err)

	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), state.NewRouter(status), conditions, rnd)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middlewarectx.WithIdentity(req.Context(), identity))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPage_NoIdentityShowsLogin(t *testing.T) {
	status, conditions := new(MockStatus), new(MockConditions)

	rec := serve(t, status, conditions, models.Identity{}, "/bus")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome Back")
	status.AssertNotCalled(t, "GetUserStatus", mock.Anything, mock.Anything)
	conditions.AssertNotCalled(t, "GetConditions", mock.Anything)
}

func TestPage_SubscribeLinkWithoutIdentity(t *testing.T) {
	status, conditions := new(MockStatus), new(MockConditions)

	rec := serve(t, status, conditions, models.Identity{}, "/bus?view=subscribe")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Get On The Bus")
	assert.Contains(t, rec.Body.String(), `value=""`)
	status.AssertNotCalled(t, "GetUserStatus", mock.Anything, mock.Anything)
}

func TestPage_Views(t *testing.T) {
	tests := []struct {
		name     string
		status   models.SubscriptionStatus
		wantBody string
	}{
		{name: "unsubscribed", status: models.SubscriptionStatus{}, wantBody: "Get On The Bus"},
		{name: "no birth data", status: models.SubscriptionStatus{IsActive: true}, wantBody: "Set Your Frequency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, conditions := new(MockStatus), new(MockConditions)
			st := tt.status
			status.On("GetUserStatus", mock.Anything, "rider@bus.com").Return(&st, nil).Once()

			rec := serve(t, status, conditions, models.Identity{Email: "rider@bus.com"}, "/bus")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			status.AssertExpectations(t)
			conditions.AssertNotCalled(t, "GetConditions", mock.Anything)
		})
	}
}

func TestPage_SubscribePrefilledWithIdentity(t *testing.T) {
	status, conditions := new(MockStatus), new(MockConditions)
	status.On("GetUserStatus", mock.Anything, "rider@bus.com").Return(&models.SubscriptionStatus{}, nil)

	rec := serve(t, status, conditions, models.Identity{Email: "rider@bus.com"}, "/bus?view=subscribe")

	assert.Contains(t, rec.Body.String(), `value="rider@bus.com"`)
}

func TestPage_DashboardWithConditions(t *testing.T) {
	status, conditions := new(MockStatus), new(MockConditions)
	status.On("GetUserStatus", mock.Anything, "rider@bus.com").
		Return(&models.SubscriptionStatus{IsActive: true, HasBirthData: true}, nil)
	conditions.On("GetConditions", mock.Anything).
		Return(&models.Conditions{H5Gain: 1.25, ConditionsLabel: "Tailwind", OperatingMode: "Cruise"}, nil).Once()

	rec := serve(t, status, conditions, models.Identity{Email: "rider@bus.com"}, "/bus")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome Aboard")
	assert.Contains(t, body, "rider@bus.com")
	assert.Contains(t, body, "1.25x")
	assert.Contains(t, body, "Tailwind")
	conditions.AssertExpectations(t)
}

func TestPage_DashboardConditionsFailureIgnored(t *testing.T) {
	status, conditions := new(MockStatus), new(MockConditions)
	status.On("GetUserStatus", mock.Anything, "rider@bus.com").
		Return(&models.SubscriptionStatus{IsActive: true, HasBirthData: true}, nil)
	conditions.On("GetConditions", mock.Anything).Return(nil, errors.New("upstream down"))

	rec := serve(t, status, conditions, models.Identity{Email: "rider@bus.com"}, "/bus")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome Aboard")
	assert.NotContains(t, rec.Body.String(), "error-message")
}

func TestPage_StatusFailure(t *testing.T) {
	status, conditions := new(MockStatus), new(MockConditions)
	status.On("GetUserStatus", mock.Anything, "rider@bus.com").Return(nil, errors.New("timeout"))

	rec := serve(t, status, conditions, models.Identity{Email: "rider@bus.com"}, "/bus")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrUnverified)
	assert.NotContains(t, rec.Body.String(), "<form")
}

func TestRequire(t *testing.T) {
	rnd, err := view.New()
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rider := models.Identity{Email: "rider@bus.com"}

	tests := []struct {
		name     string
		identity models.Identity
		status   *models.SubscriptionStatus
		fetchErr error
		want     state.View
		wantOK   bool
		wantCode int
	}{
		{name: "matching view", identity: rider, status: &models.SubscriptionStatus{IsActive: true, HasBirthData: true}, want: state.ViewDashboard, wantOK: true, wantCode: http.StatusOK},
		{name: "inactive subscription", identity: rider, status: &models.SubscriptionStatus{}, want: state.ViewDashboard, wantCode: http.StatusSeeOther},
		{name: "birth data already saved", identity: rider, status: &models.SubscriptionStatus{IsActive: true, HasBirthData: true}, want: state.ViewBirthData, wantCode: http.StatusSeeOther},
		{name: "no identity", want: state.ViewDashboard, wantCode: http.StatusSeeOther},
		{name: "status unavailable", identity: rider, fetchErr: errors.New("boom"), want: state.ViewDashboard, wantCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := new(MockStatus)
			if tt.identity.Present() {
				status.On("GetUserStatus", mock.Anything, tt.identity.Email).Return(tt.status, tt.fetchErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/bus/reading", nil)
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), tt.identity))
			rec := httptest.NewRecorder()

			_, ok := Require(rec, req, log, state.NewRouter(status), rnd, tt.want)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusSeeOther {
				assert.Equal(t, "/bus", rec.Header().Get("Location"))
			}
			if tt.fetchErr != nil {
				assert.Contains(t, rec.Body.String(), ErrUnverified)
			}
			status.AssertExpectations(t)
		})
	}
}
