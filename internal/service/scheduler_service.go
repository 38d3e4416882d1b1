package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	pkgerrors "github.com/campuskit/timetable-api/pkg/errors"
)

type catalogLoader interface {
	Load(ctx context.Context) (*models.Catalog, error)
}

type timetableStore interface {
	ClearSemester(ctx context.Context, semesterID int64) (int64, error)
	SaveEntries(ctx context.Context, entries []models.TimetableEntry) (int, error)
}

type preferenceFinalizer interface {
	MarkAllApplied(ctx context.Context) (int64, error)
}

type runObserver interface {
	ObserveRun(status string, scheduled, conflicts, uncompleted int)
}

// RunSummarySink receives the summary of each finished run. Implementations
// may be absent; the scheduler treats a nil sink as "do not retain".
type RunSummarySink interface {
	StoreSummary(ctx context.Context, semesterID int64, summary *dto.ScheduleRunSummary) error
}

// SchedulerService orchestrates a full scheduling run: load the catalog,
// clear old output, schedule each major against shared occupancy state, save
// the result and finalize teacher preferences.
type SchedulerService struct {
	loader      catalogLoader
	store       timetableStore
	prefs       preferenceFinalizer
	metrics     runObserver
	cache       RunSummarySink
	validate    *validator.Validate
	log         *zap.Logger
	defaultSeed int64
}

func NewSchedulerService(
	loader catalogLoader,
	store timetableStore,
	prefs preferenceFinalizer,
	metrics runObserver,
	cache RunSummarySink,
	validate *validator.Validate,
	log *zap.Logger,
	defaultSeed int64,
) *SchedulerService {
	return &SchedulerService{
		loader:      loader,
		store:       store,
		prefs:       prefs,
		metrics:     metrics,
		cache:       cache,
		validate:    validate,
		log:         log,
		defaultSeed: defaultSeed,
	}
}

// Run executes the scheduling pipeline for one semester. The returned summary
// always carries a terminal status; an error is only returned for invalid
// requests. Preference finalization runs no matter how the pipeline ends.
func (s *SchedulerService) Run(ctx context.Context, req dto.ScheduleRunRequest) (*dto.ScheduleRunSummary, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation.Code, pkgerrors.ErrValidation.Status, "invalid scheduling request")
	}

	summary := &dto.ScheduleRunSummary{
		RunID:   uuid.NewString(),
		Status:  dto.RunStatusFailure,
		Details: []string{},
	}
	start := time.Now()
	defer func() {
		s.finalizePreferences(ctx)
		s.publishSummary(ctx, req.SemesterID, summary)
		if s.metrics != nil {
			s.metrics.ObserveRun(summary.Status, summary.TotalScheduledEntries, summary.TotalConflicts, summary.TotalUncompletedTasks)
		}
		s.log.Info("scheduling run finished",
			zap.String("run_id", summary.RunID),
			zap.String("status", summary.Status),
			zap.Int64("semester_id", req.SemesterID),
			zap.Int("scheduled", summary.TotalScheduledEntries),
			zap.Int("conflicts", summary.TotalConflicts),
			zap.Duration("elapsed", time.Since(start)))
	}()

	rng := rand.New(rand.NewSource(s.seedFor(req)))

	catalog, err := s.loader.Load(ctx)
	if err != nil {
		s.log.Error("catalog load failed", zap.String("run_id", summary.RunID), zap.Error(err))
		summary.Status = dto.RunStatusError
		summary.Message = fmt.Sprintf("data loading failed: %v", err)
		return summary, nil
	}

	semester, ok := catalog.Semesters[req.SemesterID]
	if !ok {
		summary.Message = fmt.Sprintf("semester %d not found", req.SemesterID)
		return summary, nil
	}
	if semester.TotalWeeks <= 0 {
		summary.Message = fmt.Sprintf("semester %q (id %d) has an invalid week count (%d)", semester.Name, semester.ID, semester.TotalWeeks)
		return summary, nil
	}

	byMajor := catalog.AssignmentsForSemester(req.SemesterID)
	if len(byMajor) == 0 {
		summary.Status = dto.RunStatusSuccessNoWork
		summary.Message = fmt.Sprintf("semester %q (id %d) has no teaching tasks", semester.Name, semester.ID)
		return summary, nil
	}

	cleared, err := s.store.ClearSemester(ctx, req.SemesterID)
	if err != nil {
		s.log.Error("clearing old timetable failed", zap.String("run_id", summary.RunID), zap.Error(err))
		summary.Status = dto.RunStatusError
		summary.Message = fmt.Sprintf("clearing old timetable failed: %v", err)
		return summary, nil
	}
	summary.DBRecordsCleared = int(cleared)

	state := newOccupancyState()
	var allEntries []models.TimetableEntry

	for _, majorID := range sortMajorsByName(catalog, byMajor) {
		majorName := majorNameOf(catalog, majorID)
		assignments := byMajor[majorID]
		if len(assignments) == 0 {
			summary.Details = append(summary.Details, fmt.Sprintf("major %q (id %d): no teaching tasks, skipped", majorName, majorID))
			continue
		}

		template, pool := buildTemplate(rng, assignments, catalog)
		result := scheduleMajor(rng, catalog, semester, assignments, template, pool, state)
		allEntries = append(allEntries, result.entries...)

		summary.ProcessedMajors++
		summary.TotalScheduledEntries += len(result.entries)
		summary.TotalConflicts += len(result.conflicts)
		summary.TotalUncompletedTasks += len(result.uncompleted)
		summary.Details = append(summary.Details, fmt.Sprintf(
			"major %q (id %d): %d entries scheduled, %d conflicts, %d uncompleted tasks",
			majorName, majorID, len(result.entries), len(result.conflicts), len(result.uncompleted)))

		s.log.Debug("major scheduled",
			zap.String("run_id", summary.RunID),
			zap.Int64("major_id", majorID),
			zap.Int("entries", len(result.entries)),
			zap.Int("conflicts", len(result.conflicts)),
			zap.Int("uncompleted", len(result.uncompleted)))
	}

	if len(allEntries) > 0 {
		saved, err := s.store.SaveEntries(ctx, allEntries)
		if err != nil {
			s.log.Error("saving timetable failed", zap.String("run_id", summary.RunID), zap.Error(err))
			summary.Status = dto.RunStatusError
			summary.Message = fmt.Sprintf("saving timetable failed: %v", err)
			return summary, nil
		}
		summary.DBRecordsSaved = saved
	}

	summary.Status = dto.RunStatusSuccess
	summary.Message = fmt.Sprintf("semester %d scheduling complete.", req.SemesterID)
	if summary.TotalConflicts > 0 || summary.TotalUncompletedTasks > 0 {
		summary.Message += fmt.Sprintf(" conflicts: %d, uncompleted tasks: %d.", summary.TotalConflicts, summary.TotalUncompletedTasks)
	}
	return summary, nil
}

func (s *SchedulerService) seedFor(req dto.ScheduleRunRequest) int64 {
	if req.Seed != 0 {
		return req.Seed
	}
	if s.defaultSeed != 0 {
		return s.defaultSeed
	}
	return time.Now().UnixNano()
}

// finalizePreferences flips all teacher preferences to applied. A failure here
// never changes the run outcome; it is only logged.
func (s *SchedulerService) finalizePreferences(ctx context.Context) {
	applied, err := s.prefs.MarkAllApplied(ctx)
	if err != nil {
		s.log.Error("marking teacher preferences applied failed", zap.Error(err))
		return
	}
	s.log.Info("teacher preferences marked applied", zap.Int64("rows", applied))
}

func (s *SchedulerService) publishSummary(ctx context.Context, semesterID int64, summary *dto.ScheduleRunSummary) {
	if s.cache == nil {
		return
	}
	if err := s.cache.StoreSummary(ctx, semesterID, summary); err != nil {
		s.log.Warn("caching run summary failed", zap.Error(err))
	}
}

func sortMajorsByName(catalog *models.Catalog, byMajor map[int64]map[int64]models.CourseAssignment) []int64 {
	ids := make([]int64, 0, len(byMajor))
	for id := range byMajor {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := majorNameOf(catalog, ids[i]), majorNameOf(catalog, ids[j])
		if a != b {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}

func majorNameOf(catalog *models.Catalog, majorID int64) string {
	if major, ok := catalog.Majors[majorID]; ok {
		return major.Name
	}
	return fmt.Sprintf("未知专业ID_%d", majorID)
}
