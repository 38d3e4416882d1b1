package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	"github.com/campuskit/timetable-api/internal/repository"
	pkgerrors "github.com/campuskit/timetable-api/pkg/errors"
)

type stubPlanStore struct {
	plans     []models.CoursePlan
	total     int
	createID  int64
	createErr error
	updateErr error
	deleteErr error
}

func (s *stubPlanStore) List(context.Context, models.CoursePlanFilter) ([]models.CoursePlan, int, error) {
	return s.plans, s.total, nil
}

func (s *stubPlanStore) Create(context.Context, dto.CoursePlanRequest) (int64, error) {
	return s.createID, s.createErr
}

func (s *stubPlanStore) Update(context.Context, int64, dto.CoursePlanRequest) error {
	return s.updateErr
}

func (s *stubPlanStore) Delete(context.Context, int64) error {
	return s.deleteErr
}

func validPlanRequest() dto.CoursePlanRequest {
	return dto.CoursePlanRequest{
		SemesterID: 1, MajorID: 10, CourseName: "数据结构",
		CourseType: models.CourseTypeTheory, TotalSessions: 4, TeacherID: 20,
	}
}

func TestCoursePlanListPagination(t *testing.T) {
	store := &stubPlanStore{plans: make([]models.CoursePlan, 10), total: 25}
	svc := NewCoursePlanService(store, validator.New(), zap.NewNop())

	_, pagination, err := svc.List(context.Background(), dto.CoursePlanQuery{SemesterID: 1, Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.NotNil(t, pagination)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 25, pagination.TotalItems)
	assert.Equal(t, 3, pagination.TotalPages)
}

func TestCoursePlanListWithoutPaging(t *testing.T) {
	store := &stubPlanStore{plans: make([]models.CoursePlan, 3), total: 3}
	svc := NewCoursePlanService(store, validator.New(), zap.NewNop())

	plans, pagination, err := svc.List(context.Background(), dto.CoursePlanQuery{SemesterID: 1})
	require.NoError(t, err)
	assert.Nil(t, pagination)
	assert.Len(t, plans, 3)
}

func TestCoursePlanCreateDuplicate(t *testing.T) {
	store := &stubPlanStore{createErr: repository.ErrPlanExists}
	svc := NewCoursePlanService(store, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), validPlanRequest())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrConflict.Code, pkgerrors.FromError(err).Code)
}

func TestCoursePlanCreateRejectsInvalid(t *testing.T) {
	svc := NewCoursePlanService(&stubPlanStore{}, validator.New(), zap.NewNop())
	_, err := svc.Create(context.Background(), dto.CoursePlanRequest{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrValidation.Code, pkgerrors.FromError(err).Code)
}

func TestCoursePlanUpdateMissing(t *testing.T) {
	store := &stubPlanStore{updateErr: repository.ErrPlanNotFound}
	svc := NewCoursePlanService(store, validator.New(), zap.NewNop())

	err := svc.Update(context.Background(), 7, validPlanRequest())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound.Code, pkgerrors.FromError(err).Code)
}

func TestCoursePlanDeleteMissing(t *testing.T) {
	store := &stubPlanStore{deleteErr: repository.ErrPlanNotFound}
	svc := NewCoursePlanService(store, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound.Code, pkgerrors.FromError(err).Code)
}
