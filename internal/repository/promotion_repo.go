package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sanmiguel-edu/colegio-api/internal/models"
)

// ErrDuplicateRun indicates a promotion batch was already committed for the
// same (ciclo escolar, trimester) pair.
var ErrDuplicateRun = errors.New("promotion run already exists for period")

// StudentPromotionUpdate is one student-level state transition inside a batch.
type StudentPromotionUpdate struct {
	StudentID    uint
	GradeLevelID *uint
	Status       models.StudentStatus
}

// PromotionBatch groups everything a promotion execution commits: the run
// header, every student update and every audit record. Either all of it is
// applied or none of it is.
type PromotionBatch struct {
	Run     models.PromotionRun
	Updates []StudentPromotionUpdate
	Records []models.PromotionAuditRecord
}

// PromotionRepository owns the transactional write path of the promotion
// engine.
type PromotionRepository interface {
	RunExists(ctx context.Context, cicloEscolar string, trimesterID uint) (bool, error)
	CommitBatch(ctx context.Context, batch *PromotionBatch) error
}

type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository constructs the promotion repository.
func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) RunExists(ctx context.Context, cicloEscolar string, trimesterID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PromotionRun{}).
		Where("ciclo_escolar = ? AND trimester_id = ?", cicloEscolar, trimesterID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *promotionRepository) CommitBatch(ctx context.Context, batch *PromotionBatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.PromotionRun{}).
			Where("ciclo_escolar = ? AND trimester_id = ?", batch.Run.CicloEscolar, batch.Run.TrimesterID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateRun
		}

		if err := tx.Create(&batch.Run).Error; err != nil {
			// Concurrent executions of the same period race on the unique
			// index; the loser surfaces as a duplicate run.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRun
			}
			return err
		}

		for _, update := range batch.Updates {
			result := tx.Model(&models.Student{}).
				Where("id = ?", update.StudentID).
				Updates(map[string]interface{}{
					"grade_level_id": update.GradeLevelID,
					"status":         update.Status,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		for i := range batch.Records {
			batch.Records[i].RunID = batch.Run.ID
		}

		if len(batch.Records) > 0 {
			if err := tx.CreateInBatches(&batch.Records, 200).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
