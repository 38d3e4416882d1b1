package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	"github.com/campuskit/timetable-api/internal/repository"
	pkgerrors "github.com/campuskit/timetable-api/pkg/errors"
)

type coursePlanStore interface {
	List(ctx context.Context, filter models.CoursePlanFilter) ([]models.CoursePlan, int, error)
	Create(ctx context.Context, req dto.CoursePlanRequest) (int64, error)
	Update(ctx context.Context, planID int64, req dto.CoursePlanRequest) error
	Delete(ctx context.Context, planID int64) error
}

// CoursePlanService manages the teaching tasks that feed the scheduler.
type CoursePlanService struct {
	store    coursePlanStore
	validate *validator.Validate
	log      *zap.Logger
}

func NewCoursePlanService(store coursePlanStore, validate *validator.Validate, log *zap.Logger) *CoursePlanService {
	return &CoursePlanService{store: store, validate: validate, log: log}
}

func (s *CoursePlanService) List(ctx context.Context, query dto.CoursePlanQuery) ([]models.CoursePlan, *models.Pagination, error) {
	if err := s.validate.Struct(query); err != nil {
		return nil, nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation.Code, pkgerrors.ErrValidation.Status, "invalid course plan query")
	}

	filter := models.CoursePlanFilter{
		SemesterID: query.SemesterID,
		MajorID:    query.MajorID,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	plans, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, pkgerrors.ErrDataAccess.Code, pkgerrors.ErrDataAccess.Status, "listing course plans failed")
	}
	if filter.PageSize <= 0 {
		return plans, nil, nil
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pagination := &models.Pagination{
		Page:       page,
		PageSize:   filter.PageSize,
		TotalItems: total,
		TotalPages: (total + filter.PageSize - 1) / filter.PageSize,
	}
	return plans, pagination, nil
}

func (s *CoursePlanService) Create(ctx context.Context, req dto.CoursePlanRequest) (int64, error) {
	if err := s.validate.Struct(req); err != nil {
		return 0, pkgerrors.Wrap(err, pkgerrors.ErrValidation.Code, pkgerrors.ErrValidation.Status, "invalid course plan")
	}
	id, err := s.store.Create(ctx, req)
	if errors.Is(err, repository.ErrPlanExists) {
		return 0, pkgerrors.Clone(pkgerrors.ErrConflict, "this course plan already exists for the major and semester")
	}
	if err != nil {
		return 0, pkgerrors.Wrap(err, pkgerrors.ErrDataAccess.Code, pkgerrors.ErrDataAccess.Status, "creating course plan failed")
	}
	s.log.Info("course plan created", zap.Int64("plan_id", id), zap.Int64("semester_id", req.SemesterID))
	return id, nil
}

func (s *CoursePlanService) Update(ctx context.Context, planID int64, req dto.CoursePlanRequest) error {
	if planID <= 0 {
		return pkgerrors.Clone(pkgerrors.ErrValidation, "plan id must be positive")
	}
	if err := s.validate.Struct(req); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation.Code, pkgerrors.ErrValidation.Status, "invalid course plan")
	}
	err := s.store.Update(ctx, planID, req)
	if errors.Is(err, repository.ErrPlanNotFound) {
		return pkgerrors.Clone(pkgerrors.ErrNotFound, fmt.Sprintf("course plan %d not found", planID))
	}
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrDataAccess.Code, pkgerrors.ErrDataAccess.Status, "updating course plan failed")
	}
	return nil
}

func (s *CoursePlanService) Delete(ctx context.Context, planID int64) error {
	if planID <= 0 {
		return pkgerrors.Clone(pkgerrors.ErrValidation, "plan id must be positive")
	}
	err := s.store.Delete(ctx, planID)
	if errors.Is(err, repository.ErrPlanNotFound) {
		return pkgerrors.Clone(pkgerrors.ErrNotFound, fmt.Sprintf("course plan %d not found", planID))
	}
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrDataAccess.Code, pkgerrors.ErrDataAccess.Status, "deleting course plan failed")
	}
	return nil
}
