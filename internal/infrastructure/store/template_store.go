package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// TemplateStore persists AI food templates in Postgres, one per user and
// normalized name.
type TemplateStore struct {
	db *gorm.DB
}

// NewTemplateStore creates a template store backed by the given database.
func NewTemplateStore(db *gorm.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func (s *TemplateStore) Find(ctx context.Context, userID uint, normalizedName string) (*domain.FoodTemplate, error) {
	var tpl domain.FoodTemplate
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND normalized_name = ?", userID, normalizedName).
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, normalizedName)
		}
		return nil, err
	}
	return &tpl, nil
}

// Upsert writes a template, replacing any previous one for the same user
// and normalized name.
func (s *TemplateStore) Upsert(ctx context.Context, template *domain.FoodTemplate) error {
	if template.ID != 0 {
		return s.db.WithContext(ctx).Save(template).Error
	}

	var existing domain.FoodTemplate
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND normalized_name = ?", template.UserID, template.NormalizedName).
		First(&existing).Error
	switch {
	case err == nil:
		template.ID = existing.ID
		return s.db.WithContext(ctx).Save(template).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.WithContext(ctx).Create(template).Error
	default:
		return err
	}
}

func (s *TemplateStore) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.FoodTemplate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrTemplateNotFound, id)
	}
	return nil
}
