package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/reservation-backend/internal/booking"
	"github.com/campuskit/reservation-backend/internal/pkg/request"
	"github.com/campuskit/reservation-backend/internal/pkg/response"
	"github.com/campuskit/reservation-backend/internal/resource"
)

type Handler struct {
	service        resource.Service
	bookingService booking.Service
}

func NewHandler(service resource.Service, bookingService booking.Service) *Handler {
	return &Handler{service: service, bookingService: bookingService}
}

func (h *Handler) List(c *gin.Context) {
	var req ListResourcesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := resource.Filter{
		Type:       req.Type,
		Department: req.Department,
		Keyword:    req.Keyword,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	resources, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ResourceResponse, len(resources))
	for i, r := range resources {
		items[i] = NewResourceResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateResourceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := resource.CreateRequest{
		Name:                 body.Name,
		Type:                 resource.Type(body.Type),
		Department:           body.Department,
		DepartmentRestricted: body.DepartmentRestricted,
		AllowedRoles:         body.AllowedRoles,
		MinDurationMinutes:   body.MinDurationMinutes,
		MaxDurationMinutes:   body.MaxDurationMinutes,
		MaxAdvanceDays:       body.MaxAdvanceDays,
		RequiresApproval:     body.RequiresApproval,
		AvailabilityWindows:  body.AvailabilityWindows,
	}

	r, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResourceResponse(r))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResourceResponse(r))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	var body UpdateResourceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := resource.UpdateRequest{
		Name:                 body.Name,
		Department:           body.Department,
		DepartmentRestricted: body.DepartmentRestricted,
		AllowedRoles:         body.AllowedRoles,
		MinDurationMinutes:   body.MinDurationMinutes,
		MaxDurationMinutes:   body.MaxDurationMinutes,
		MaxAdvanceDays:       body.MaxAdvanceDays,
		RequiresApproval:     body.RequiresApproval,
		AvailabilityWindows:  body.AvailabilityWindows,
	}

	r, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResourceResponse(r))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Availability returns the free intervals on a resource for one day.
func (h *Handler) Availability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required in YYYY-MM-DD format"})
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required in YYYY-MM-DD format"})
		return
	}

	slots, err := h.bookingService.DayAvailability(c.Request.Context(), uri.ID, day)
	if err != nil {
		response.Error(c, err)
		return
	}
	if slots == nil {
		slots = make([]booking.TimeSlot, 0)
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		ResourceID: uri.ID,
		Date:       req.Date,
		FreeSlots:  slots,
	})
}
