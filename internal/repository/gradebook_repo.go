package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sanmiguel-edu/colegio-api/internal/models"
)

// TaskFilter narrows task queries. TrimesterID selects one period exactly;
// MaxTrimesterPosition selects every period up to and including the given
// ordinal (cumulative report-card reads). Setting neither selects all tasks.
type TaskFilter struct {
	CourseIDs            []uint
	TrimesterID          *uint
	MaxTrimesterPosition *int
}

// EntryFilter narrows grade entry queries.
type EntryFilter struct {
	TaskIDs   []uint
	StudentID *uint
}

// GradebookRepository reads task definitions and grade entries. The
// aggregation engine only ever consumes snapshots; nothing here mutates.
type GradebookRepository interface {
	GetCourse(ctx context.Context, id uint) (models.Course, error)
	ListCoursesBySection(ctx context.Context, sectionID uint) ([]models.Course, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]models.GradeEntry, error)
}

type gradebookRepository struct {
	db *gorm.DB
}

// NewGradebookRepository constructs the gradebook repository.
func NewGradebookRepository(db *gorm.DB) GradebookRepository {
	return &gradebookRepository{db: db}
}

func (r *gradebookRepository) GetCourse(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Subject").
		First(&course, id).Error
	if err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *gradebookRepository) ListCoursesBySection(ctx context.Context, sectionID uint) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("section_id = ?", sectionID).
		Order("id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *gradebookRepository) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{})

	if len(filter.CourseIDs) > 0 {
		query = query.Where("course_id IN ?", filter.CourseIDs)
	}

	if filter.TrimesterID != nil {
		query = query.Where("trimester_id = ?", *filter.TrimesterID)
	}

	if filter.MaxTrimesterPosition != nil {
		query = query.Joins("JOIN trimesters ON trimesters.id = tasks.trimester_id").
			Where("trimesters.position <= ?", *filter.MaxTrimesterPosition)
	}

	var tasks []models.Task
	if err := query.Order("tasks.id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *gradebookRepository) ListEntries(ctx context.Context, filter EntryFilter) ([]models.GradeEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.GradeEntry{})

	if len(filter.TaskIDs) > 0 {
		query = query.Where("task_id IN ?", filter.TaskIDs)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	var entries []models.GradeEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
