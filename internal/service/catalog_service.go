package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/models"
	pkgerrors "github.com/campuskit/timetable-api/pkg/errors"
)

type catalogLister interface {
	ListSemesters(ctx context.Context) ([]models.Semester, error)
	ListMajors(ctx context.Context) ([]models.NameRef, error)
	ListTeachers(ctx context.Context) ([]models.NameRef, error)
}

// CatalogService serves the picker lists used by planning screens.
type CatalogService struct {
	lister catalogLister
	log    *zap.Logger
}

func NewCatalogService(lister catalogLister, log *zap.Logger) *CatalogService {
	return &CatalogService{lister: lister, log: log}
}

func (s *CatalogService) Semesters(ctx context.Context) ([]models.Semester, error) {
	semesters, err := s.lister.ListSemesters(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrDataAccess.Code, pkgerrors.ErrDataAccess.Status, "listing semesters failed")
	}
	return semesters, nil
}

func (s *CatalogService) Majors(ctx context.Context) ([]models.NameRef, error) {
	majors, err := s.lister.ListMajors(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrDataAccess.Code, pkgerrors.ErrDataAccess.Status, "listing majors failed")
	}
	return majors, nil
}

func (s *CatalogService) Teachers(ctx context.Context) ([]models.NameRef, error) {
	teachers, err := s.lister.ListTeachers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrDataAccess.Code, pkgerrors.ErrDataAccess.Status, "listing teachers failed")
	}
	return teachers, nil
}
