package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sanmiguel-edu/colegio-api/internal/dto"
	"github.com/sanmiguel-edu/colegio-api/internal/models"
	"github.com/sanmiguel-edu/colegio-api/internal/repository"
)

type fakeCatalogRepo struct {
	levels     []models.GradeLevel
	trimesters map[uint]models.Trimester
}

func (f *fakeCatalogRepo) ListGradeLevels(ctx context.Context) ([]models.GradeLevel, error) {
	return f.levels, nil
}

func (f *fakeCatalogRepo) GetTrimester(ctx context.Context, id uint) (models.Trimester, error) {
	trimester, ok := f.trimesters[id]
	if !ok {
		return models.Trimester{}, gorm.ErrRecordNotFound
	}
	return trimester, nil
}

func (f *fakeCatalogRepo) ListTrimesters(ctx context.Context, cicloEscolar string) ([]models.Trimester, error) {
	var out []models.Trimester
	for _, trimester := range f.trimesters {
		if cicloEscolar == "" || trimester.CicloEscolar == cicloEscolar {
			out = append(out, trimester)
		}
	}
	return out, nil
}

type fakePromotionRepo struct {
	exists    bool
	committed *repository.PromotionBatch
	commitErr error
}

func (f *fakePromotionRepo) RunExists(ctx context.Context, cicloEscolar string, trimesterID uint) (bool, error) {
	return f.exists, nil
}

func (f *fakePromotionRepo) CommitBatch(ctx context.Context, batch *repository.PromotionBatch) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	batch.Run.ID = 1
	f.committed = batch
	return nil
}

type fakeAggregator struct {
	bySection map[uint][]CourseResult
}

func (f *fakeAggregator) CourseResults(ctx context.Context, courseID uint, trimesterID *uint) (CourseResult, error) {
	return CourseResult{}, nil
}

func (f *fakeAggregator) SectionResults(ctx context.Context, sectionID uint, trimesterID *uint, maxTrimesterPosition *int) ([]CourseResult, error) {
	return f.bySection[sectionID], nil
}

func sectionWithAverages(averages map[uint]*float64) []CourseResult {
	students := make([]StudentSubjectResult, 0, len(averages))
	for studentID, average := range averages {
		students = append(students, StudentSubjectResult{StudentID: studentID, Average: average})
	}
	return []CourseResult{{CourseID: 1, Students: students}}
}

func promotionTestFixture() (*fakeStudentRepo, *fakeCatalogRepo, *fakePromotionRepo, *fakeAggregator) {
	levels := []models.GradeLevel{
		{ID: 1, Name: "Cuarto", Position: 1},
		{ID: 2, Name: "Quinto", Position: 2},
		{ID: 3, Name: "Sexto", Position: 3, Terminal: true},
	}
	sectionA, sectionC := uint(10), uint(30)
	level1, level3 := levels[0], levels[2]

	students := &fakeStudentRepo{students: []models.Student{
		{ID: 1, Carnet: "2026-0001", Name: "María García", Status: models.StudentStatusActive, GradeLevelID: &level1.ID, SectionID: &sectionA, GradeLevel: &level1},
		{ID: 2, Carnet: "2026-0002", Name: "José López", Status: models.StudentStatusActive, GradeLevelID: &level1.ID, SectionID: &sectionA, GradeLevel: &level1},
		{ID: 3, Carnet: "2026-0003", Name: "Ana Martínez", Status: models.StudentStatusActive, GradeLevelID: &level1.ID, SectionID: &sectionA, GradeLevel: &level1},
		{ID: 4, Carnet: "2026-0004", Name: "Carlos Pérez", Status: models.StudentStatusActive},
		{ID: 5, Carnet: "2026-0005", Name: "Lucía Ramos", Status: models.StudentStatusActive, GradeLevelID: &level3.ID, SectionID: &sectionC, GradeLevel: &level3},
	}}

	catalog := &fakeCatalogRepo{
		levels: levels,
		trimesters: map[uint]models.Trimester{
			3: {ID: 3, Name: "Tercer Trimestre", Position: 3, CicloEscolar: "2026"},
		},
	}

	aggregator := &fakeAggregator{bySection: map[uint][]CourseResult{
		sectionA: sectionWithAverages(map[uint]*float64{
			1: ptrFloat(85),
			2: ptrFloat(60), // exactly at the threshold, must pass
			3: ptrFloat(45),
		}),
		sectionC: sectionWithAverages(map[uint]*float64{
			5: ptrFloat(91),
		}),
	}}

	return students, catalog, &fakePromotionRepo{}, aggregator
}

func newPromotionService(students *fakeStudentRepo, catalog *fakeCatalogRepo, promotions *fakePromotionRepo, aggregator *fakeAggregator) PromotionService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewPromotionService(students, catalog, promotions, aggregator, nil, validate, 60, zerolog.Nop())
}

func TestPromotionSimulateClassifiesRoster(t *testing.T) {
	students, catalog, promotions, aggregator := promotionTestFixture()
	svc := newPromotionService(students, catalog, promotions, aggregator)

	resp, err := svc.Simulate(context.Background(), dto.PromotionSimulationRequest{TrimesterID: 3})
	require.NoError(t, err)
	require.Equal(t, 60.0, resp.MinPassingAverage)
	require.Len(t, resp.Items, 5)

	decisions := map[string]models.PromotionDecision{}
	for _, item := range resp.Items {
		decisions[item.Carnet] = item.Decision
	}
	require.Equal(t, models.DecisionPromote, decisions["2026-0001"])
	require.Equal(t, models.DecisionPromote, decisions["2026-0002"], "an average equal to the threshold passes")
	require.Equal(t, models.DecisionRepeat, decisions["2026-0003"])
	require.Equal(t, models.DecisionNoSection, decisions["2026-0004"])
	require.Equal(t, models.DecisionGraduate, decisions["2026-0005"], "passing a terminal level graduates, never promotes")

	require.Equal(t, 5, resp.Summary.TotalStudents)
	require.Equal(t, 2, resp.Summary.Promoted)
	require.Equal(t, 1, resp.Summary.Repeating)
	require.Equal(t, 1, resp.Summary.Graduated)
	require.Equal(t, 1, resp.Summary.NoSection)

	require.Nil(t, promotions.committed, "simulation must not write anything")
}

func TestPromotionSimulateCustomThreshold(t *testing.T) {
	students, catalog, promotions, aggregator := promotionTestFixture()
	svc := newPromotionService(students, catalog, promotions, aggregator)

	resp, err := svc.Simulate(context.Background(), dto.PromotionSimulationRequest{TrimesterID: 3, MinPassingAverage: ptrFloat(70)})
	require.NoError(t, err)
	require.Equal(t, 70.0, resp.MinPassingAverage)

	// At 70, the two borderline students fall to REPEAT.
	require.Equal(t, 1, resp.Summary.Promoted)
	require.Equal(t, 2, resp.Summary.Repeating)
}

func TestPromotionSimulateUnknownTrimester(t *testing.T) {
	students, catalog, promotions, aggregator := promotionTestFixture()
	svc := newPromotionService(students, catalog, promotions, aggregator)

	_, err := svc.Simulate(context.Background(), dto.PromotionSimulationRequest{TrimesterID: 99})
	require.ErrorIs(t, err, ErrTrimesterNotFound)
}

func TestPromotionExecuteRequiresElevation(t *testing.T) {
	students, catalog, promotions, aggregator := promotionTestFixture()
	svc := newPromotionService(students, catalog, promotions, aggregator)

	_, err := svc.Execute(context.Background(), dto.PromotionExecutionRequest{TrimesterID: 3, CicloEscolar: "2026"}, PromotionActor{ID: 7, Role: "teacher"})
	require.ErrorIs(t, err, ErrNotAuthorized)
	require.Nil(t, promotions.committed)
}

func TestPromotionExecuteRejectsProcessedPeriod(t *testing.T) {
	students, catalog, promotions, aggregator := promotionTestFixture()
	promotions.exists = true
	svc := newPromotionService(students, catalog, promotions, aggregator)

	_, err := svc.Execute(context.Background(), dto.PromotionExecutionRequest{TrimesterID: 3, CicloEscolar: "2026"}, PromotionActor{ID: 7, Role: "director", Elevated: true})
	require.ErrorIs(t, err, ErrPeriodAlreadyProcessed)
	require.Nil(t, promotions.committed)
}

func TestPromotionExecuteRejectsDuplicateCommit(t *testing.T) {
	students, catalog, promotions, aggregator := promotionTestFixture()
	promotions.commitErr = repository.ErrDuplicateRun
	svc := newPromotionService(students, catalog, promotions, aggregator)

	_, err := svc.Execute(context.Background(), dto.PromotionExecutionRequest{TrimesterID: 3, CicloEscolar: "2026"}, PromotionActor{ID: 7, Role: "director", Elevated: true})
	require.ErrorIs(t, err, ErrPeriodAlreadyProcessed)
}

func TestPromotionExecutePeriodMismatch(t *testing.T) {
	students, catalog, promotions, aggregator := promotionTestFixture()
	svc := newPromotionService(students, catalog, promotions, aggregator)

	_, err := svc.Execute(context.Background(), dto.PromotionExecutionRequest{TrimesterID: 3, CicloEscolar: "2027"}, PromotionActor{ID: 7, Role: "director", Elevated: true})
	require.ErrorIs(t, err, ErrPeriodMismatch)
}

func TestPromotionExecuteCommitsBatch(t *testing.T) {
	students, catalog, promotions, aggregator := promotionTestFixture()
	svc := newPromotionService(students, catalog, promotions, aggregator)

	resp, err := svc.Execute(context.Background(), dto.PromotionExecutionRequest{
		TrimesterID:  3,
		CicloEscolar: "2026",
		Observations: "cierre de ciclo",
	}, PromotionActor{ID: 7, Role: "director", Elevated: true})
	require.NoError(t, err)
	require.Equal(t, uint(1), resp.RunID)
	require.Equal(t, 5, resp.Summary.TotalStudents)
	require.Equal(t, resp.Summary.TotalStudents, resp.Summary.Promoted+resp.Summary.Repeating+resp.Summary.Graduated+resp.Summary.NoSection)

	batch := promotions.committed
	require.NotNil(t, batch)
	require.Equal(t, "2026", batch.Run.CicloEscolar)
	require.Equal(t, uint(7), batch.Run.ExecutedByID)
	require.Equal(t, "director", batch.Run.ExecutedByRole)
	require.Equal(t, "cierre de ciclo", batch.Run.Observations)

	// Every evaluated student leaves an audit record, NO_SECTION included.
	require.Len(t, batch.Records, 5)
	// NO_SECTION has no state transition, so one fewer update than records.
	require.Len(t, batch.Updates, 4)

	updatesByStudent := map[uint]repository.StudentPromotionUpdate{}
	for _, update := range batch.Updates {
		updatesByStudent[update.StudentID] = update
	}

	promoted := updatesByStudent[1]
	require.Equal(t, models.StudentStatusActive, promoted.Status)
	require.NotNil(t, promoted.GradeLevelID)
	require.Equal(t, uint(2), *promoted.GradeLevelID, "promotion moves to the next level by position")

	repeating := updatesByStudent[3]
	require.Equal(t, models.StudentStatusRepeating, repeating.Status)
	require.NotNil(t, repeating.GradeLevelID)
	require.Equal(t, uint(1), *repeating.GradeLevelID, "a repeating student keeps the level")

	graduated := updatesByStudent[5]
	require.Equal(t, models.StudentStatusGraduated, graduated.Status)
	require.NotNil(t, graduated.GradeLevelID)
	require.Equal(t, uint(3), *graduated.GradeLevelID)

	for _, record := range batch.Records {
		require.Equal(t, "2026", record.CicloEscolar)
		require.Equal(t, uint(3), record.TrimesterID)
		require.Equal(t, 60.0, record.Metadata["min_passing_average"])
	}
}

func TestPromotionExecuteMissingNextLevelAbortsBatch(t *testing.T) {
	students, catalog, promotions, aggregator := promotionTestFixture()
	// Drop the second level so the passing first-level students have nowhere
	// to go.
	catalog.levels = []models.GradeLevel{catalog.levels[0], catalog.levels[2]}
	svc := newPromotionService(students, catalog, promotions, aggregator)

	_, err := svc.Execute(context.Background(), dto.PromotionExecutionRequest{TrimesterID: 3, CicloEscolar: "2026"}, PromotionActor{ID: 7, Role: "sup", Elevated: true})
	require.ErrorIs(t, err, ErrMissingNextLevel)
	require.Nil(t, promotions.committed, "nothing may commit when the batch aborts")
}

func TestPromotionExecuteUndefinedAverageRepeats(t *testing.T) {
	students, catalog, promotions, aggregator := promotionTestFixture()
	sectionA := uint(10)
	aggregator.bySection[sectionA] = sectionWithAverages(map[uint]*float64{1: nil, 2: nil, 3: nil})
	svc := newPromotionService(students, catalog, promotions, aggregator)

	resp, err := svc.Execute(context.Background(), dto.PromotionExecutionRequest{TrimesterID: 3, CicloEscolar: "2026"}, PromotionActor{ID: 7, Role: "director", Elevated: true})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Summary.Repeating, "no graded work cannot demonstrate a passing grade")
	require.Equal(t, 0, resp.Summary.Promoted)
}
