package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sanmiguel-edu/colegio-api/internal/models"
)

// StudentFilter narrows student roster queries.
type StudentFilter struct {
	GradeLevelID *uint
	SectionID    *uint
	Status       models.StudentStatus
}

// StudentRepository exposes read access to the student directory. The only
// mutation path for grade level and status is the promotion batch commit,
// which runs through PromotionRepository inside one transaction.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	ListEvaluable(ctx context.Context) ([]models.Student, error)
	GetByCarnet(ctx context.Context, carnet string) (models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs the student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{}).
		Preload("GradeLevel").
		Preload("Section")

	if filter.GradeLevelID != nil {
		query = query.Where("grade_level_id = ?", *filter.GradeLevelID)
	}

	if filter.SectionID != nil {
		query = query.Where("section_id = ?", *filter.SectionID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var students []models.Student
	if err := query.Order("carnet ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) ListEvaluable(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Preload("GradeLevel").
		Preload("Section").
		Where("status <> ?", models.StudentStatusGraduated).
		Order("carnet ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) GetByCarnet(ctx context.Context, carnet string) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("GradeLevel").
		Preload("Section").
		Where("carnet = ?", carnet).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}
