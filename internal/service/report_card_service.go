package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sanmiguel-edu/colegio-api/internal/dto"
	"github.com/sanmiguel-edu/colegio-api/internal/models"
	"github.com/sanmiguel-edu/colegio-api/internal/repository"
)

// ErrStudentNotFound indicates the carnet does not match any student.
var ErrStudentNotFound = errors.New("student not found")

const statusSnapshotCacheKey = "colegio:students:status"

// ReportCardService assembles per-subject grade histories and roster-wide
// status snapshots. Pure read path over the aggregation primitives.
type ReportCardService interface {
	BuildReportCard(ctx context.Context, carnet string, upToTrimesterID *uint) (dto.ReportCardResponse, error)
	StudentStatus(ctx context.Context, gradeLevelID *uint) (dto.StudentStatusResponse, error)
}

type reportCardService struct {
	students   repository.StudentRepository
	catalog    repository.CatalogRepository
	aggregator GradeAggregator
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewReportCardService constructs the report card service.
func NewReportCardService(
	students repository.StudentRepository,
	catalog repository.CatalogRepository,
	aggregator GradeAggregator,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) ReportCardService {
	return &reportCardService{
		students:   students,
		catalog:    catalog,
		aggregator: aggregator,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.With().Str("component", "report_card_service").Logger(),
		now:        time.Now,
	}
}

func (s *reportCardService) BuildReportCard(ctx context.Context, carnet string, upToTrimesterID *uint) (dto.ReportCardResponse, error) {
	student, err := s.students.GetByCarnet(ctx, carnet)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportCardResponse{}, ErrStudentNotFound
		}
		return dto.ReportCardResponse{}, err
	}

	response := dto.ReportCardResponse{
		Carnet:          student.Carnet,
		Name:            student.Name,
		GradeLevel:      gradeLevelName(student),
		UpToTrimesterID: upToTrimesterID,
		Subjects:        []dto.SubjectAverageResponse{},
	}
	if student.Section != nil {
		response.Section = student.Section.Name
	}

	// A student without a section has no coursework to report.
	if student.SectionID == nil {
		return response, nil
	}

	var maxPosition *int
	if upToTrimesterID != nil {
		trimester, err := s.catalog.GetTrimester(ctx, *upToTrimesterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ReportCardResponse{}, ErrTrimesterNotFound
			}
			return dto.ReportCardResponse{}, err
		}
		maxPosition = &trimester.Position
	}

	results, err := s.aggregator.SectionResults(ctx, *student.SectionID, nil, maxPosition)
	if err != nil {
		return dto.ReportCardResponse{}, err
	}

	averages := make([]*float64, 0, len(results))
	for _, course := range results {
		for _, studentResult := range course.Students {
			if studentResult.StudentID != student.ID {
				continue
			}
			response.Subjects = append(response.Subjects, dto.SubjectAverageResponse{
				CourseID:    course.CourseID,
				Subject:     course.Subject,
				Average:     studentResult.Average,
				GradedTasks: studentResult.Totals.GradedTasks,
			})
			averages = append(averages, studentResult.Average)
		}
	}

	response.GeneralAverage = GeneralAverage(averages)
	return response, nil
}

func (s *reportCardService) StudentStatus(ctx context.Context, gradeLevelID *uint) (dto.StudentStatusResponse, error) {
	// Only the unfiltered snapshot is cached; grade-filtered reads are rare
	// and cheap enough to recompute.
	cacheable := gradeLevelID == nil && s.cache != nil

	if cacheable {
		cached, err := s.cache.Get(ctx, statusSnapshotCacheKey).Result()
		if err == nil {
			var response dto.StudentStatusResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read status snapshot cache")
		}
	}

	students, err := s.students.List(ctx, repository.StudentFilter{GradeLevelID: gradeLevelID})
	if err != nil {
		return dto.StudentStatusResponse{}, err
	}

	generals, err := s.generalAveragesBySection(ctx, students)
	if err != nil {
		return dto.StudentStatusResponse{}, err
	}

	items := make([]dto.StudentStatusItem, 0, len(students))
	for _, student := range students {
		item := dto.StudentStatusItem{
			Carnet:     student.Carnet,
			Name:       student.Name,
			GradeLevel: gradeLevelName(student),
			Status:     string(student.Status),
		}
		if student.SectionID != nil {
			item.GeneralAverage = generals[*student.SectionID][student.ID]
		}
		items = append(items, item)
	}

	response := dto.StudentStatusResponse{
		Items:       items,
		GeneratedAt: s.now().UTC(),
	}

	if cacheable {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, statusSnapshotCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store status snapshot cache")
			}
		}
	}

	return response, nil
}

func (s *reportCardService) generalAveragesBySection(ctx context.Context, students []models.Student) (map[uint]map[uint]*float64, error) {
	generals := map[uint]map[uint]*float64{}
	for _, student := range students {
		if student.SectionID == nil {
			continue
		}
		sectionID := *student.SectionID
		if _, done := generals[sectionID]; done {
			continue
		}

		results, err := s.aggregator.SectionResults(ctx, sectionID, nil, nil)
		if err != nil {
			return nil, err
		}

		subjectAverages := map[uint][]*float64{}
		for _, course := range results {
			for _, studentResult := range course.Students {
				subjectAverages[studentResult.StudentID] = append(subjectAverages[studentResult.StudentID], studentResult.Average)
			}
		}

		sectionGenerals := map[uint]*float64{}
		for studentID, averages := range subjectAverages {
			sectionGenerals[studentID] = GeneralAverage(averages)
		}
		generals[sectionID] = sectionGenerals
	}

	return generals, nil
}
