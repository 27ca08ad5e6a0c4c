package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sanmiguel-edu/colegio-api/internal/models"
)

// CatalogRepository reads the slow-changing school catalog: grade levels and
// academic periods.
type CatalogRepository interface {
	ListGradeLevels(ctx context.Context) ([]models.GradeLevel, error)
	GetTrimester(ctx context.Context, id uint) (models.Trimester, error)
	ListTrimesters(ctx context.Context, cicloEscolar string) ([]models.Trimester, error)
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository constructs the catalog repository.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListGradeLevels(ctx context.Context) ([]models.GradeLevel, error) {
	var levels []models.GradeLevel
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&levels).Error; err != nil {
		return nil, err
	}

	return levels, nil
}

func (r *catalogRepository) GetTrimester(ctx context.Context, id uint) (models.Trimester, error) {
	var trimester models.Trimester
	if err := r.db.WithContext(ctx).First(&trimester, id).Error; err != nil {
		return models.Trimester{}, err
	}

	return trimester, nil
}

func (r *catalogRepository) ListTrimesters(ctx context.Context, cicloEscolar string) ([]models.Trimester, error) {
	query := r.db.WithContext(ctx).Model(&models.Trimester{})
	if cicloEscolar != "" {
		query = query.Where("ciclo_escolar = ?", cicloEscolar)
	}

	var trimesters []models.Trimester
	if err := query.Order("position ASC").Find(&trimesters).Error; err != nil {
		return nil, err
	}

	return trimesters, nil
}
