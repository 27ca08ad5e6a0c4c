package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sanmiguel-edu/colegio-api/internal/dto"
	"github.com/sanmiguel-edu/colegio-api/internal/models"
	"github.com/sanmiguel-edu/colegio-api/internal/observability"
	"github.com/sanmiguel-edu/colegio-api/internal/repository"
)

var (
	// ErrNotAuthorized indicates the caller lacks promotion authority.
	ErrNotAuthorized = errors.New("caller lacks promotion authority")
	// ErrTrimesterNotFound indicates the requested trimester does not exist.
	ErrTrimesterNotFound = errors.New("trimester not found")
	// ErrPeriodAlreadyProcessed indicates a batch was already committed for
	// the (ciclo escolar, trimester) pair. Re-execution is rejected outright.
	ErrPeriodAlreadyProcessed = errors.New("promotion already executed for period")
	// ErrPeriodMismatch indicates the trimester belongs to a different ciclo
	// escolar than the one supplied.
	ErrPeriodMismatch = errors.New("trimester does not belong to ciclo escolar")
	// ErrMissingNextLevel indicates a passing student sits at a non-terminal
	// level with no configured successor. The batch aborts; nothing commits.
	ErrMissingNextLevel = errors.New("no next grade level configured")
)

// PromotionActor identifies the authenticated caller of a promotion
// operation. Elevated is the capability flag granted by the authorization
// layer; the engine never inspects roles itself.
type PromotionActor struct {
	ID       uint
	Role     string
	Elevated bool
}

// PromotionService classifies students into promotion outcomes, either as a
// read-only simulation or as one atomic, audited batch execution.
type PromotionService interface {
	Simulate(ctx context.Context, req dto.PromotionSimulationRequest) (dto.PromotionSimulationResponse, error)
	Execute(ctx context.Context, req dto.PromotionExecutionRequest, actor PromotionActor) (dto.PromotionExecutionResponse, error)
}

type promotionService struct {
	students          repository.StudentRepository
	catalog           repository.CatalogRepository
	promotions        repository.PromotionRepository
	aggregator        GradeAggregator
	cache             *redis.Client
	validator         *validator.Validate
	defaultMinPassing float64
	logger            zerolog.Logger
	now               func() time.Time
}

// NewPromotionService constructs the promotion service.
func NewPromotionService(
	students repository.StudentRepository,
	catalog repository.CatalogRepository,
	promotions repository.PromotionRepository,
	aggregator GradeAggregator,
	cache *redis.Client,
	validator *validator.Validate,
	defaultMinPassing float64,
	logger zerolog.Logger,
) PromotionService {
	if defaultMinPassing <= 0 {
		defaultMinPassing = 60
	}
	return &promotionService{
		students:          students,
		catalog:           catalog,
		promotions:        promotions,
		aggregator:        aggregator,
		cache:             cache,
		validator:         validator,
		defaultMinPassing: defaultMinPassing,
		logger:            logger.With().Str("component", "promotion_service").Logger(),
		now:               time.Now,
	}
}

// studentClassification is the outcome computed for one student. The same
// pass backs both Simulate and Execute so a stale simulation can never drift
// from the committed action.
type studentClassification struct {
	student  models.Student
	average  *float64
	decision models.PromotionDecision
}

func (s *promotionService) Simulate(ctx context.Context, req dto.PromotionSimulationRequest) (dto.PromotionSimulationResponse, error) {
	tracer := otel.Tracer("github.com/sanmiguel-edu/colegio-api/internal/service/promotion")
	ctx, span := tracer.Start(ctx, "promotion.simulate")
	span.SetAttributes(attribute.Int64("promotion.trimester_id", int64(req.TrimesterID)))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.PromotionSimulationResponse{}, err
	}

	if _, err := s.catalog.GetTrimester(ctx, req.TrimesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PromotionSimulationResponse{}, ErrTrimesterNotFound
		}
		return dto.PromotionSimulationResponse{}, err
	}

	minPassing := s.resolveMinPassing(req.MinPassingAverage)
	classifications, err := s.classify(ctx, req.TrimesterID, minPassing)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "classification_failed")
		return dto.PromotionSimulationResponse{}, err
	}

	items := make([]dto.PromotionDecisionItem, 0, len(classifications))
	var summary dto.PromotionSummary
	for _, c := range classifications {
		countDecision(&summary, c.decision)
		items = append(items, dto.PromotionDecisionItem{
			Carnet:         c.student.Carnet,
			Name:           c.student.Name,
			GradeLevel:     gradeLevelName(c.student),
			GeneralAverage: c.average,
			Decision:       c.decision,
		})
	}

	observability.PromotionSimulations().Inc()
	span.SetAttributes(attribute.Int("promotion.total_students", summary.TotalStudents))

	return dto.PromotionSimulationResponse{
		TrimesterID:       req.TrimesterID,
		MinPassingAverage: minPassing,
		Items:             items,
		Summary:           summary,
		GeneratedAt:       s.now().UTC(),
	}, nil
}

func (s *promotionService) Execute(ctx context.Context, req dto.PromotionExecutionRequest, actor PromotionActor) (dto.PromotionExecutionResponse, error) {
	tracer := otel.Tracer("github.com/sanmiguel-edu/colegio-api/internal/service/promotion")
	ctx, span := tracer.Start(ctx, "promotion.execute")
	span.SetAttributes(
		attribute.Int64("promotion.trimester_id", int64(req.TrimesterID)),
		attribute.String("promotion.ciclo_escolar", req.CicloEscolar),
		attribute.Int64("promotion.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if !actor.Elevated {
		span.SetStatus(codes.Error, "not_authorized")
		return dto.PromotionExecutionResponse{}, ErrNotAuthorized
	}

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.PromotionExecutionResponse{}, err
	}

	trimester, err := s.catalog.GetTrimester(ctx, req.TrimesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PromotionExecutionResponse{}, ErrTrimesterNotFound
		}
		return dto.PromotionExecutionResponse{}, err
	}
	if trimester.CicloEscolar != "" && trimester.CicloEscolar != req.CicloEscolar {
		return dto.PromotionExecutionResponse{}, ErrPeriodMismatch
	}

	exists, err := s.promotions.RunExists(ctx, req.CicloEscolar, req.TrimesterID)
	if err != nil {
		return dto.PromotionExecutionResponse{}, err
	}
	if exists {
		observability.PromotionBatches().WithLabelValues("rejected").Inc()
		return dto.PromotionExecutionResponse{}, ErrPeriodAlreadyProcessed
	}

	started := s.now()
	minPassing := s.resolveMinPassing(req.MinPassingAverage)

	classifications, err := s.classify(ctx, req.TrimesterID, minPassing)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "classification_failed")
		return dto.PromotionExecutionResponse{}, err
	}

	batch, summary, err := s.buildBatch(ctx, req, actor, minPassing, classifications)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch_build_failed")
		return dto.PromotionExecutionResponse{}, err
	}

	if err := s.promotions.CommitBatch(ctx, batch); err != nil {
		if errors.Is(err, repository.ErrDuplicateRun) {
			observability.PromotionBatches().WithLabelValues("rejected").Inc()
			return dto.PromotionExecutionResponse{}, ErrPeriodAlreadyProcessed
		}
		observability.PromotionBatches().WithLabelValues("failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch_commit_failed")
		return dto.PromotionExecutionResponse{}, err
	}

	observability.PromotionBatches().WithLabelValues("committed").Inc()
	observability.PromotionBatchDuration().Observe(s.now().Sub(started).Seconds())
	observability.PromotionDecisions().WithLabelValues(string(models.DecisionPromote)).Add(float64(summary.Promoted))
	observability.PromotionDecisions().WithLabelValues(string(models.DecisionRepeat)).Add(float64(summary.Repeating))
	observability.PromotionDecisions().WithLabelValues(string(models.DecisionGraduate)).Add(float64(summary.Graduated))
	observability.PromotionDecisions().WithLabelValues(string(models.DecisionNoSection)).Add(float64(summary.NoSection))

	s.invalidateStatusSnapshot(ctx)

	s.logger.Info().
		Str("ciclo_escolar", req.CicloEscolar).
		Uint("trimester_id", req.TrimesterID).
		Int("total_students", summary.TotalStudents).
		Int("promoted", summary.Promoted).
		Int("repeating", summary.Repeating).
		Int("graduated", summary.Graduated).
		Int("no_section", summary.NoSection).
		Msg("promotion batch committed")

	span.SetAttributes(attribute.Int("promotion.total_students", summary.TotalStudents))

	return dto.PromotionExecutionResponse{
		RunID:             batch.Run.ID,
		TrimesterID:       req.TrimesterID,
		CicloEscolar:      req.CicloEscolar,
		MinPassingAverage: minPassing,
		Summary:           summary,
		ExecutedAt:        batch.Run.CreatedAt,
	}, nil
}

func (s *promotionService) classify(ctx context.Context, trimesterID uint, minPassing float64) ([]studentClassification, error) {
	students, err := s.students.ListEvaluable(ctx)
	if err != nil {
		return nil, err
	}

	// One aggregation pass per section; every student in the section shares
	// the same course set.
	averagesBySection := map[uint]map[uint]*float64{}
	for _, student := range students {
		if student.SectionID == nil {
			continue
		}
		sectionID := *student.SectionID
		if _, done := averagesBySection[sectionID]; done {
			continue
		}

		results, err := s.aggregator.SectionResults(ctx, sectionID, &trimesterID, nil)
		if err != nil {
			return nil, err
		}

		subjectAverages := map[uint][]*float64{}
		for _, course := range results {
			for _, studentResult := range course.Students {
				subjectAverages[studentResult.StudentID] = append(subjectAverages[studentResult.StudentID], studentResult.Average)
			}
		}

		generals := map[uint]*float64{}
		for studentID, averages := range subjectAverages {
			generals[studentID] = GeneralAverage(averages)
		}
		averagesBySection[sectionID] = generals
	}

	classifications := make([]studentClassification, 0, len(students))
	for _, student := range students {
		c := studentClassification{student: student}

		if student.SectionID == nil || student.GradeLevelID == nil || student.GradeLevel == nil {
			c.decision = models.DecisionNoSection
			classifications = append(classifications, c)
			continue
		}

		c.average = averagesBySection[*student.SectionID][student.ID]

		// An undefined general average (no graded work anywhere) cannot
		// demonstrate a passing grade, so the student repeats.
		passing := c.average != nil && *c.average >= minPassing
		switch {
		case passing && student.GradeLevel.Terminal:
			c.decision = models.DecisionGraduate
		case passing:
			c.decision = models.DecisionPromote
		default:
			c.decision = models.DecisionRepeat
		}

		classifications = append(classifications, c)
	}

	return classifications, nil
}

func (s *promotionService) buildBatch(ctx context.Context, req dto.PromotionExecutionRequest, actor PromotionActor, minPassing float64, classifications []studentClassification) (*repository.PromotionBatch, dto.PromotionSummary, error) {
	levels, err := s.catalog.ListGradeLevels(ctx)
	if err != nil {
		return nil, dto.PromotionSummary{}, err
	}
	levelByPosition := make(map[int]models.GradeLevel, len(levels))
	for _, level := range levels {
		levelByPosition[level.Position] = level
	}

	var summary dto.PromotionSummary
	batch := &repository.PromotionBatch{
		Updates: make([]repository.StudentPromotionUpdate, 0, len(classifications)),
		Records: make([]models.PromotionAuditRecord, 0, len(classifications)),
	}

	for _, c := range classifications {
		countDecision(&summary, c.decision)

		record := models.PromotionAuditRecord{
			StudentID:            c.student.ID,
			Carnet:               c.student.Carnet,
			CicloEscolar:         req.CicloEscolar,
			TrimesterID:          req.TrimesterID,
			PreviousGradeLevelID: c.student.GradeLevelID,
			NewGradeLevelID:      c.student.GradeLevelID,
			GeneralAverage:       c.average,
			Decision:             c.decision,
			ExecutedByRole:       actor.Role,
			Observations:         req.Observations,
			Metadata: datatypes.JSONMap{
				"min_passing_average": minPassing,
			},
		}

		switch c.decision {
		case models.DecisionPromote:
			next, ok := levelByPosition[c.student.GradeLevel.Position+1]
			if !ok {
				return nil, dto.PromotionSummary{}, ErrMissingNextLevel
			}
			nextID := next.ID
			record.NewGradeLevelID = &nextID
			batch.Updates = append(batch.Updates, repository.StudentPromotionUpdate{
				StudentID:    c.student.ID,
				GradeLevelID: &nextID,
				Status:       models.StudentStatusActive,
			})
		case models.DecisionRepeat:
			batch.Updates = append(batch.Updates, repository.StudentPromotionUpdate{
				StudentID:    c.student.ID,
				GradeLevelID: c.student.GradeLevelID,
				Status:       models.StudentStatusRepeating,
			})
		case models.DecisionGraduate:
			batch.Updates = append(batch.Updates, repository.StudentPromotionUpdate{
				StudentID:    c.student.ID,
				GradeLevelID: c.student.GradeLevelID,
				Status:       models.StudentStatusGraduated,
			})
		case models.DecisionNoSection:
			// Recorded in the audit trail, no state transition.
		}

		batch.Records = append(batch.Records, record)
	}

	batch.Run = models.PromotionRun{
		CicloEscolar:      req.CicloEscolar,
		TrimesterID:       req.TrimesterID,
		MinPassingAverage: minPassing,
		TotalStudents:     summary.TotalStudents,
		Promoted:          summary.Promoted,
		Repeating:         summary.Repeating,
		Graduated:         summary.Graduated,
		NoSection:         summary.NoSection,
		ExecutedByID:      actor.ID,
		ExecutedByRole:    actor.Role,
		Observations:      req.Observations,
	}

	return batch, summary, nil
}

func (s *promotionService) resolveMinPassing(requested *float64) float64 {
	if requested != nil && *requested > 0 {
		return *requested
	}
	return s.defaultMinPassing
}

func (s *promotionService) invalidateStatusSnapshot(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statusSnapshotCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate status snapshot cache")
	}
}

func countDecision(summary *dto.PromotionSummary, decision models.PromotionDecision) {
	summary.TotalStudents++
	switch decision {
	case models.DecisionPromote:
		summary.Promoted++
	case models.DecisionRepeat:
		summary.Repeating++
	case models.DecisionGraduate:
		summary.Graduated++
	case models.DecisionNoSection:
		summary.NoSection++
	}
}

func gradeLevelName(student models.Student) string {
	if student.GradeLevel == nil {
		return ""
	}
	return student.GradeLevel.Name
}
