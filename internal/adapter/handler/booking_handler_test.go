package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
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

	"github.com/tourpad/scheduler/internal/adapter/handler"
	"github.com/tourpad/scheduler/internal/core/domain"
	"github.com/tourpad/scheduler/internal/core/ports/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*mocks.BookingService, *gin.Engine) {
	t.Helper()
	svc := mocks.NewBookingService(t)
	h := handler.NewBookingHandler(svc, zap.NewNop())
	return svc, handler.NewRouter(h, handler.RouterConfig{CORSOrigins: []string{"*"}}, zap.NewNop())
}

func do(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitBooking_StatusByOutcome(t *testing.T) {
	tests := []struct {
		name   string
		status domain.OutcomeStatus
		want   int
	}{
		{"confirmed", domain.OutcomeConfirmed, http.StatusCreated},
		{"pending", domain.OutcomePending, http.StatusCreated},
		{"waitlisted", domain.OutcomeWaitlisted, http.StatusAccepted},
		{"rejected", domain.OutcomeRejected, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, r := newRouter(t)
			req := domain.BookingRequest{
				ResourceID:     uuid.New(),
				RequesterID:    uuid.New(),
				RequestedStart: "2025-06-01",
				RequestedEnd:   "2025-06-03",
				GuestCount:     2,
			}
			svc.On("SubmitBooking", mock.Anything, req).Return(&domain.BookingOutcome{Status: tt.status, Quote: 275}, nil)

			w := do(r, http.MethodPost, "/api/bookings", req, nil)

			assert.Equal(t, tt.want, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(tt.status), body["status"])
			assert.Equal(t, float64(275), body["quote"])
		})
	}
}

func TestSubmitBooking_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid range", domain.ErrInvalidRange, http.StatusBadRequest},
		{"not found", domain.NotFoundError("resource", uuid.New()), http.StatusNotFound},
		{"stale calendar", domain.ErrConcurrentModification, http.StatusConflict},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, r := newRouter(t)
			svc.On("SubmitBooking", mock.Anything, mock.AnythingOfType("domain.BookingRequest")).Return(nil, tt.err)

			w := do(r, http.MethodPost, "/api/bookings", map[string]any{"guest_count": 1}, nil)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "connection reset")
			}
		})
	}
}

func TestSubmitBooking_MalformedBody(t *testing.T) {
	_, r := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelBooking(t *testing.T) {
	windowID, actorID := uuid.New(), uuid.New()
	promoted := uuid.New()

	t.Run("promoted", func(t *testing.T) {
		svc, r := newRouter(t)
		svc.On("CancelBooking", mock.Anything, windowID, actorID).Return(&domain.CancelOutcome{
			Status:      domain.CancelPromoted,
			WindowID:    windowID,
			PromotedID:  &promoted,
			PromotedIDs: []uuid.UUID{promoted},
		}, nil)

		w := do(r, http.MethodDelete, "/api/bookings/"+windowID.String(), nil, map[string]string{handler.ActorHeader: actorID.String()})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), promoted.String())
	})

	t.Run("not authorized", func(t *testing.T) {
		svc, r := newRouter(t)
		svc.On("CancelBooking", mock.Anything, windowID, actorID).Return(&domain.CancelOutcome{Status: domain.CancelNotAuthorized, WindowID: windowID}, nil)

		w := do(r, http.MethodDelete, "/api/bookings/"+windowID.String(), nil, map[string]string{handler.ActorHeader: actorID.String()})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing actor", func(t *testing.T) {
		_, r := newRouter(t)

		w := do(r, http.MethodDelete, "/api/bookings/"+windowID.String(), nil, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		_, r := newRouter(t)

		w := do(r, http.MethodDelete, "/api/bookings/not-a-uuid", nil, map[string]string{handler.ActorHeader: actorID.String()})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestConfirmBooking_ExpiredHold(t *testing.T) {
	svc, r := newRouter(t)
	windowID, actorID := uuid.New(), uuid.New()
	svc.On("ConfirmBooking", mock.Anything, windowID, actorID).Return(&domain.BookingOutcome{Status: domain.OutcomeRejected, Reason: domain.ReasonExpired}, nil)

	w := do(r, http.MethodPost, "/api/bookings/"+windowID.String()+"/confirm", nil, map[string]string{handler.ActorHeader: actorID.String()})

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestConfirmBooking_ConflictAndWaitlisted(t *testing.T) {
	windowID, actorID := uuid.New(), uuid.New()

	t.Run("overlapping hold", func(t *testing.T) {
		svc, r := newRouter(t)
		svc.On("ConfirmBooking", mock.Anything, windowID, actorID).Return(&domain.BookingOutcome{Status: domain.OutcomeRejected, Reason: domain.ReasonConflict}, nil)

		w := do(r, http.MethodPost, "/api/bookings/"+windowID.String()+"/confirm", nil, map[string]string{handler.ActorHeader: actorID.String()})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("waitlisted window", func(t *testing.T) {
		svc, r := newRouter(t)
		svc.On("ConfirmBooking", mock.Anything, windowID, actorID).Return(nil, domain.ErrInvalidTransition)

		w := do(r, http.MethodPost, "/api/bookings/"+windowID.String()+"/confirm", nil, map[string]string{handler.ActorHeader: actorID.String()})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), string(domain.CodeInvalidTransition))
	})
}

func TestExpireBooking_HoldStillActive(t *testing.T) {
	svc, r := newRouter(t)
	windowID := uuid.New()
	svc.On("ExpireBooking", mock.Anything, windowID).Return(nil, domain.ErrHoldActive)

	w := do(r, http.MethodPost, "/api/bookings/"+windowID.String()+"/expire", nil, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), string(domain.CodeHoldActive))
}

func TestQueryAvailability(t *testing.T) {
	svc, r := newRouter(t)
	resourceID := uuid.New()
	svc.On("QueryAvailability", mock.Anything, resourceID, "2025-06-01", "2025-07-01").Return(nil, nil)

	w := do(r, http.MethodGet, "/api/resources/"+resourceID.String()+"/availability?start=2025-06-01&end=2025-07-01", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Windows []domain.ReservedWindow `json:"windows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotNil(t, body.Windows)
	assert.Empty(t, body.Windows)

	w = do(r, http.MethodGet, "/api/resources/"+resourceID.String()+"/availability?start=2025-06-01", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuotePrice(t *testing.T) {
	svc, r := newRouter(t)
	profileID := uuid.New()
	svc.On("QuotePrice", mock.Anything, profileID, 3, 2).Return(domain.Money(370), nil)

	w := do(r, http.MethodGet, "/api/profiles/"+profileID.String()+"/quote?nights=3&guests=2", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":370`)

	w = do(r, http.MethodGet, "/api/profiles/"+profileID.String()+"/quote?nights=three", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterResource_ParsesPolicy(t *testing.T) {
	svc, r := newRouter(t)
	resourceID, ownerID := uuid.New(), uuid.New()

	svc.On("RegisterResource", mock.Anything, mock.MatchedBy(func(reg domain.ResourceRegistration) bool {
		return reg.ResourceID == resourceID && reg.Policy != nil &&
			reg.Policy.HoldTTL == 15*time.Minute && reg.Policy.WaitlistMax == 3
	})).Return(domain.NewResourceCalendar(resourceID, ownerID, "Europe/Berlin", domain.Policy{HoldTTL: 15 * time.Minute, WaitlistMax: 3}), nil)

	w := do(r, http.MethodPost, "/api/resources", map[string]any{
		"resource_id":  resourceID,
		"owner_id":     ownerID,
		"time_zone":    "Europe/Berlin",
		"hold_ttl":     "15m",
		"waitlist_max": 3,
	}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"hold_ttl":"15m0s"`)

	w = do(r, http.MethodPost, "/api/resources", map[string]any{"resource_id": resourceID, "owner_id": ownerID, "hold_ttl": "soon"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishProfile_UsesPathResource(t *testing.T) {
	svc, r := newRouter(t)
	resourceID := uuid.New()

	svc.On("PublishProfile", mock.Anything, mock.MatchedBy(func(p domain.CapacityProfile) bool {
		return p.ResourceID == resourceID && p.MaxOccupancy == 4
	})).Return(&domain.CapacityProfile{ID: uuid.New(), ResourceID: resourceID, Version: 1, MaxOccupancy: 4}, nil)

	w := do(r, http.MethodPost, "/api/resources/"+resourceID.String()+"/profiles", map[string]any{
		"resource_id":   uuid.New(),
		"max_occupancy": 4,
		"base_rate":     100,
	}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimiter(t *testing.T) {
	svc := mocks.NewBookingService(t)
	h := handler.NewBookingHandler(svc, zap.NewNop())
	r := handler.NewRouter(h, handler.RouterConfig{Limiter: handler.NewRateLimiter(0.001, 1)}, zap.NewNop())

	profileID := uuid.New()
	svc.On("QuotePrice", mock.Anything, profileID, 1, 1).Return(domain.Money(100), nil).Once()

	first := do(r, http.MethodGet, "/api/profiles/"+profileID.String()+"/quote?nights=1", nil, nil)
	second := do(r, http.MethodGet, "/api/profiles/"+profileID.String()+"/quote?nights=1", nil, nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	health := do(r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, health.Code)
}
