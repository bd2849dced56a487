package ask

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bozo-bus/internal/models"
	"github.com/magabrotheeeer/bozo-bus/internal/view"
)

type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) GetReading(ctx context.Context, question, email string) (*models.Reading, error) {
	args := m.Called(ctx, question, email)
	if res := args.Get(0); res != nil {
		return res.(*models.Reading), args.Error(1)
	}
	return nil, args.Error(1)
}

func newHandler(t *testing.T, oracle ReadingGetter) *Handler {
	t.Helper()
	rnd, err := view.New()
	require.NoError(t, err)
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), oracle, rnd)
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAsk_Get(t *testing.T) {
	oracle := new(MockOracle)
	rec := httptest.NewRecorder()

	newHandler(t, oracle).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ask", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="ask-form"`)
	oracle.AssertNotCalled(t, "GetReading", mock.Anything, mock.Anything, mock.Anything)
}

func TestAsk_Post(t *testing.T) {
	tests := []struct {
		name       string
		question   string
		mockSetup  func(m *MockOracle)
		wantStatus int
		wantBody   []string
	}{
		{
			name:     "empty question makes no call",
			question: "   ",
			mockSetup: func(m *MockOracle) {
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`id="ask-form"`},
		},
		{
			name:     "reading rendered",
			question: "  Where is the bus going?  ",
			mockSetup: func(m *MockOracle) {
				m.On("GetReading", mock.Anything, "Where is the bus going?", "").
					Return(&models.Reading{Quote: "Further", QuoteDate: "1966-01-01", Similarity: 0.42}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{"Further", "Written 1966-01-01", "42% resonance"},
		},
		{
			name:     "upstream failure",
			question: "Anything?",
			mockSetup: func(m *MockOracle) {
				m.On("GetReading", mock.Anything, "Anything?", "").
					Return(nil, errors.New("connection refused")).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   []string{ErrBump},
		},
		{
			name:     "too long question",
			question: strings.Repeat("a", 2001),
			mockSetup: func(m *MockOracle) {
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   []string{"field Question is too large"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := new(MockOracle)
			tt.mockSetup(oracle)

			rec := httptest.NewRecorder()
			newHandler(t, oracle).ServeHTTP(rec, postForm(url.Values{"question": {tt.question}}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			for _, s := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), s)
			}
			oracle.AssertExpectations(t)
			if len(oracle.ExpectedCalls) == 0 {
				oracle.AssertNotCalled(t, "GetReading", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
