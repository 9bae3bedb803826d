package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

type ExperimentEventRepository struct {
	DB *gorm.DB
}

func NewExperimentEventRepository(db *gorm.DB) *ExperimentEventRepository {
	return &ExperimentEventRepository{DB: db}
}

func (r *ExperimentEventRepository) SaveEvent(ctx context.Context, event domain.ExperimentEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save experiment event: %w", err)
	}

	return nil
}
