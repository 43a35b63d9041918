package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tourpad/scheduler/internal/core/domain"
	"github.com/tourpad/scheduler/internal/core/ports"
)

// ActorHeader carries the id of the caller acting on an existing booking.
// Authentication happens upstream; the scheduler only checks ownership.
const ActorHeader = "X-Actor-ID"

type BookingHandler struct {
	svc    ports.BookingService
	logger *zap.Logger
}

func NewBookingHandler(svc ports.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

type registerResourceRequest struct {
	ResourceID  uuid.UUID `json:"resource_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	TimeZone    string    `json:"time_zone"`
	HoldTTL     string    `json:"hold_ttl"`
	WaitlistMax *int      `json:"waitlist_max"`
}

func (r registerResourceRequest) toDomain() (domain.ResourceRegistration, error) {
	reg := domain.ResourceRegistration{
		ResourceID: r.ResourceID,
		OwnerID:    r.OwnerID,
		TimeZone:   r.TimeZone,
	}
	if r.HoldTTL == "" && r.WaitlistMax == nil {
		return reg, nil
	}

	var policy domain.Policy
	if r.HoldTTL != "" {
		ttl, err := time.ParseDuration(r.HoldTTL)
		if err != nil || ttl < 0 {
			return reg, domain.InvalidRequestError("invalid hold_ttl %q", r.HoldTTL)
		}
		policy.HoldTTL = ttl
	}
	if r.WaitlistMax != nil {
		policy.WaitlistMax = *r.WaitlistMax
	}
	reg.Policy = &policy
	return reg, nil
}

type resourceResponse struct {
	ResourceID  uuid.UUID `json:"resource_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	TimeZone    string    `json:"time_zone"`
	HoldTTL     string    `json:"hold_ttl"`
	WaitlistMax int       `json:"waitlist_max"`
}

func (h *BookingHandler) RegisterResource(c *gin.Context) {
	var req registerResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	reg, err := req.toDomain()
	if err != nil {
		h.respondError(c, err)
		return
	}

	cal, err := h.svc.RegisterResource(c.Request.Context(), reg)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resourceResponse{
		ResourceID:  cal.ResourceID,
		OwnerID:     cal.OwnerID,
		TimeZone:    cal.TimeZone,
		HoldTTL:     cal.Policy.HoldTTL.String(),
		WaitlistMax: cal.Policy.WaitlistMax,
	})
}

func (h *BookingHandler) PublishProfile(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var profile domain.CapacityProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	profile.ResourceID = resourceID

	out, err := h.svc.PublishProfile(c.Request.Context(), profile)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	var req domain.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	out, err := h.svc.SubmitBooking(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := http.StatusCreated
	switch out.Status {
	case domain.OutcomeWaitlisted:
		status = http.StatusAccepted
	case domain.OutcomeRejected:
		status = http.StatusConflict
	}
	c.JSON(status, out)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	windowID, ok := pathID(c, "id")
	if !ok {
		return
	}
	actorID, ok := actor(c)
	if !ok {
		return
	}

	out, err := h.svc.CancelBooking(c.Request.Context(), windowID, actorID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := http.StatusOK
	switch out.Status {
	case domain.CancelNotFound:
		status = http.StatusNotFound
	case domain.CancelNotAuthorized:
		status = http.StatusForbidden
	}
	c.JSON(status, out)
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	windowID, ok := pathID(c, "id")
	if !ok {
		return
	}
	actorID, ok := actor(c)
	if !ok {
		return
	}

	out, err := h.svc.ConfirmBooking(c.Request.Context(), windowID, actorID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := http.StatusOK
	if out.Status == domain.OutcomeRejected {
		status = http.StatusConflict
		if out.Reason == domain.ReasonExpired {
			status = http.StatusGone
		}
	}
	c.JSON(status, out)
}

func (h *BookingHandler) ExpireBooking(c *gin.Context) {
	windowID, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.svc.ExpireBooking(c.Request.Context(), windowID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := http.StatusOK
	if out.Status == domain.CancelNotFound {
		status = http.StatusNotFound
	}
	c.JSON(status, out)
}

func (h *BookingHandler) QueryAvailability(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		badRequest(c, "start and end query parameters are required")
		return
	}

	windows, err := h.svc.QueryAvailability(c.Request.Context(), resourceID, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if windows == nil {
		windows = []domain.ReservedWindow{}
	}
	c.JSON(http.StatusOK, gin.H{"resource_id": resourceID, "windows": windows})
}

func (h *BookingHandler) QuotePrice(c *gin.Context) {
	profileID, ok := pathID(c, "id")
	if !ok {
		return
	}
	nights, err := strconv.Atoi(c.Query("nights"))
	if err != nil {
		badRequest(c, "nights must be an integer")
		return
	}
	guests, err := strconv.Atoi(c.DefaultQuery("guests", "1"))
	if err != nil {
		badRequest(c, "guests must be an integer")
		return
	}

	total, err := h.svc.QuotePrice(c.Request.Context(), profileID, nights, guests)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_id": profileID, "nights": nights, "guests": guests, "total": total})
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func actor(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetHeader(ActorHeader))
	if err != nil {
		badRequest(c, ActorHeader+" header must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
