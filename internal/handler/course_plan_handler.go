package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	pkgerrors "github.com/campuskit/timetable-api/pkg/errors"
	"github.com/campuskit/timetable-api/pkg/response"
)

type coursePlanManager interface {
	List(ctx context.Context, query dto.CoursePlanQuery) ([]models.CoursePlan, *models.Pagination, error)
	Create(ctx context.Context, req dto.CoursePlanRequest) (int64, error)
	Update(ctx context.Context, planID int64, req dto.CoursePlanRequest) error
	Delete(ctx context.Context, planID int64) error
}

// CoursePlanHandler exposes CRUD for teaching tasks.
type CoursePlanHandler struct {
	plans coursePlanManager
	log   *zap.Logger
}

func NewCoursePlanHandler(plans coursePlanManager, log *zap.Logger) *CoursePlanHandler {
	return &CoursePlanHandler{plans: plans, log: log}
}

func (h *CoursePlanHandler) Register(api *gin.RouterGroup) {
	api.GET("/course-plans", h.list)
	api.POST("/course-plans", h.create)
	api.PUT("/course-plans/:id", h.update)
	api.DELETE("/course-plans/:id", h.delete)
}

func (h *CoursePlanHandler) list(c *gin.Context) {
	var query dto.CoursePlanQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, pkgerrors.Wrap(err, pkgerrors.ErrValidation.Code, pkgerrors.ErrValidation.Status, "invalid course plan query"))
		return
	}
	plans, pagination, err := h.plans.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, pagination)
}

func (h *CoursePlanHandler) create(c *gin.Context) {
	var req dto.CoursePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgerrors.Wrap(err, pkgerrors.ErrValidation.Code, pkgerrors.ErrValidation.Status, "invalid request body"))
		return
	}
	id, err := h.plans.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": id})
}

func (h *CoursePlanHandler) update(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, pkgerrors.Clone(pkgerrors.ErrValidation, "plan id must be an integer"))
		return
	}
	var req dto.CoursePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgerrors.Wrap(err, pkgerrors.ErrValidation.Code, pkgerrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.plans.Update(c.Request.Context(), planID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": planID}, nil)
}

func (h *CoursePlanHandler) delete(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, pkgerrors.Clone(pkgerrors.ErrValidation, "plan id must be an integer"))
		return
	}
	if err := h.plans.Delete(c.Request.Context(), planID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
