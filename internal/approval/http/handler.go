package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/reservation-backend/internal/approval"
	"github.com/campuskit/reservation-backend/internal/pkg/request"
	"github.com/campuskit/reservation-backend/internal/pkg/response"
)

type Handler struct {
	service approval.Service
}

func NewHandler(service approval.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListRulesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := approval.Filter{
		Department: req.Department,
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	rules, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RuleResponse, len(rules))
	for i, r := range rules {
		items[i] = NewRuleResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := approval.CreateRequest{
		Name:               body.Name,
		Priority:           body.Priority,
		Active:             body.Active,
		ResourceTypes:      body.ResourceTypes,
		Roles:              body.Roles,
		Purposes:           body.Purposes,
		MinDurationMinutes: body.MinDurationMinutes,
		MaxDurationMinutes: body.MaxDurationMinutes,
		TimeOfDayStart:     body.TimeOfDayStart,
		TimeOfDayEnd:       body.TimeOfDayEnd,
		DaysOfWeek:         body.DaysOfWeek,
		RequireDeptMatch:   body.RequireDeptMatch,
		MaxAdvanceDays:     body.MaxAdvanceDays,
		AutoApprove:        body.AutoApprove,
		Department:         body.Department,
	}

	rule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRuleResponse(rule))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	rule, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRuleResponse(rule))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	var body UpdateRuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := approval.UpdateRequest{
		Name:               body.Name,
		Priority:           body.Priority,
		Active:             body.Active,
		ResourceTypes:      body.ResourceTypes,
		Roles:              body.Roles,
		Purposes:           body.Purposes,
		MinDurationMinutes: body.MinDurationMinutes,
		MaxDurationMinutes: body.MaxDurationMinutes,
		TimeOfDayStart:     body.TimeOfDayStart,
		TimeOfDayEnd:       body.TimeOfDayEnd,
		DaysOfWeek:         body.DaysOfWeek,
		RequireDeptMatch:   body.RequireDeptMatch,
		MaxAdvanceDays:     body.MaxAdvanceDays,
		AutoApprove:        body.AutoApprove,
		Department:         body.Department,
	}

	rule, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRuleResponse(rule))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
