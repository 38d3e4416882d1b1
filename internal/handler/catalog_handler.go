package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/models"
	"github.com/campuskit/timetable-api/pkg/response"
)

type catalogReader interface {
	Semesters(ctx context.Context) ([]models.Semester, error)
	Majors(ctx context.Context) ([]models.NameRef, error)
	Teachers(ctx context.Context) ([]models.NameRef, error)
}

// CatalogHandler serves the reference lists behind planning pickers.
type CatalogHandler struct {
	catalog catalogReader
	log     *zap.Logger
}

func NewCatalogHandler(catalog catalogReader, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

func (h *CatalogHandler) Register(api *gin.RouterGroup) {
	api.GET("/semesters", h.semesters)
	api.GET("/majors-list", h.majors)
	api.GET("/teachers-list", h.teachers)
}

func (h *CatalogHandler) semesters(c *gin.Context) {
	semesters, err := h.catalog.Semesters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semesters, nil)
}

func (h *CatalogHandler) majors(c *gin.Context) {
	majors, err := h.catalog.Majors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, majors, nil)
}

func (h *CatalogHandler) teachers(c *gin.Context) {
	teachers, err := h.catalog.Teachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}
