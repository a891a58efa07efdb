package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// ProductStore persists the per-user product library in Postgres.
type ProductStore struct {
	db *gorm.DB
}

// NewProductStore creates a product store backed by the given database.
func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Create(ctx context.Context, product *domain.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *ProductStore) Update(ctx context.Context, product *domain.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product and detaches it from any entries that reference
// it. Logged entries keep their stored numbers; they only lose the link.
func (s *ProductStore) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&domain.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
		}
		return tx.Model(&domain.FoodEntry{}).
			Where("product_id = ?", id).
			Update("product_id", nil).Error
	})
}

func (s *ProductStore) GetByID(ctx context.Context, userID, id uint) (*domain.Product, error) {
	var product domain.Product
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
		}
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) GetByIDs(ctx context.Context, userID uint, ids []uint) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []domain.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) GetByBarcode(ctx context.Context, userID uint, barcode string) (*domain.Product, error) {
	var product domain.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND barcode = ?", userID, barcode).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: barcode %s", domain.ErrProductNotFound, barcode)
		}
		return nil, err
	}
	return &product, nil
}

// Search returns candidate products for a cleaned query. Matching here is a
// coarse substring filter per term; scoring and ordering happen in the
// ranker, so this only needs to avoid dropping plausible hits.
func (s *ProductStore) Search(ctx context.Context, userID uint, query string, limit int) ([]domain.Product, error) {
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)

	if terms := strings.Fields(query); len(terms) > 0 {
		match := s.db.Where("name ILIKE ?", "%"+terms[0]+"%").
			Or("brand ILIKE ?", "%"+terms[0]+"%")
		for _, term := range terms[1:] {
			match = match.Or("name ILIKE ?", "%"+term+"%").
				Or("brand ILIKE ?", "%"+term+"%")
		}
		tx = tx.Where(match)
	}

	var products []domain.Product
	if err := tx.Order("name").Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
