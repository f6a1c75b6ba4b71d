package handlers

import (
	"easyride/internal/services"
	"easyride/internal/utils"
	"easyride/internal/validators"
	"easyride/pkg/logger"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
	logger         *logger.Logger
}

func NewBookingHandler(bookingService services.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         log,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req validators.CreateBookingRequest
	if !bindJSON(c, &req, structValidator(&req)) {
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), currentUserID(c), c.GetString(utils.ContextKeyEmail), req.RideID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Ride booked successfully", booking)
}

func (h *BookingHandler) ListForDriver(c *gin.Context) {
	var query validators.DayQuery
	if !bindQuery(c, &query) {
		return
	}

	bookings, err := h.bookingService.ListForDriver(c.Request.Context(), currentUserID(c), query.Day())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponseWithMeta(c, "Bookings retrieved", bookings, &utils.Meta{Count: len(bookings)})
}

func (h *BookingHandler) ListForPassenger(c *gin.Context) {
	var query validators.DayQuery
	if !bindQuery(c, &query) {
		return
	}

	bookings, err := h.bookingService.ListForPassenger(c.Request.Context(), currentUserID(c), query.Day())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponseWithMeta(c, "Bookings retrieved", bookings, &utils.Meta{Count: len(bookings)})
}

func (h *BookingHandler) Accept(c *gin.Context) {
	booking, err := h.bookingService.Accept(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Booking accepted", booking)
}

func (h *BookingHandler) Reject(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	if err := h.bookingService.Reject(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Booking rejected", nil)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	if err := h.bookingService.Cancel(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Booking cancelled", nil)
}

func (h *BookingHandler) RefreshSnapshot(c *gin.Context) {
	booking, err := h.bookingService.RefreshSnapshot(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Booking refreshed", booking)
}
