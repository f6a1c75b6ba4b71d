package handlers

import (
	"easyride/internal/services"
	"easyride/internal/utils"
	"easyride/internal/validators"
	"easyride/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	rideService services.RideService
	logger      *logger.Logger
}

func NewRideHandler(rideService services.RideService, log *logger.Logger) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		logger:      log,
	}
}

func (h *RideHandler) PostRide(c *gin.Context) {
	var req validators.PostRideRequest
	if !bindJSON(c, &req, func() validators.ValidationErrors { return validators.ValidatePostRide(&req) }) {
		return
	}

	ride, err := h.rideService.PostRide(c.Request.Context(), currentUserID(c), &services.PostRideRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Date:        req.Day(),
		Seats:       req.Seats,
		Price:       req.Price,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Ride posted", ride)
}

func (h *RideHandler) Search(c *gin.Context) {
	var query validators.RideSearchQuery
	if !bindQuery(c, &query) {
		return
	}

	rides, err := h.rideService.Search(c.Request.Context(), query.Origin, query.Destination, query.Day())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Rides retrieved", rides, &utils.Meta{Count: len(rides)})
}

func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Ride retrieved", ride)
}

func (h *RideHandler) ListMine(c *gin.Context) {
	rides, err := h.rideService.ListForDriver(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponseWithMeta(c, "Rides retrieved", rides, &utils.Meta{Count: len(rides)})
}
