package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/application"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/response"
)

// VehicleService is the set of catalog operations exposed over HTTP.
type VehicleService interface {
	List(ctx context.Context) ([]application.VehicleDTO, error)
	FindByID(ctx context.Context, id int64) (*application.VehicleDTO, error)
	Save(ctx context.Context, req application.SaveVehicleRequest) (*application.VehicleDTO, error)
	Delete(ctx context.Context, id int64) error
}

// VehicleHandler handles HTTP requests for vehicle operations.
type VehicleHandler struct {
	service VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service VehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// RegisterRoutes registers all vehicle routes.
func (h *VehicleHandler) RegisterRoutes(r gin.IRouter) {
	vehicles := r.Group("/api/v1/vehicles")
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.POST("", h.CreateVehicle)
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.PUT("/:id", h.UpdateVehicle)
		vehicles.DELETE("/:id", h.DeleteVehicle)
	}
}

// ListVehicles returns every vehicle without enrichment.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetVehicle returns a single vehicle with its price and address.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, ok := vehicleID(c)
	if !ok {
		return
	}

	result, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateVehicle stores a new vehicle.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req application.SaveVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req.ID = 0

	result, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateVehicle overlays the request onto a stored vehicle.
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	id, ok := vehicleID(c)
	if !ok {
		return
	}

	var req application.SaveVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req.ID = id

	result, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteVehicle removes a vehicle.
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	id, ok := vehicleID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "vehicle deleted"})
}

func vehicleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid vehicle ID")
		return 0, false
	}
	return id, true
}
