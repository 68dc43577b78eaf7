package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CollectionGormRepository struct {
	db *gorm.DB
}

// DI
func NewCollectionGormRepository(db *gorm.DB) *CollectionGormRepository {
	return &CollectionGormRepository{db: db}
}

// products_count付きで全コレクションを返す
func (r *CollectionGormRepository) List(ctx context.Context) ([]repo.CollectionWithCount, error) {
	var rows []repo.CollectionWithCount

	err := r.db.WithContext(ctx).
		Model(&model.Collection{}).
		Select("collections.*, count(products.id) as products_count").
		Joins("left join products on products.collection_id = collections.id").
		Group("collections.id").
		Order("collections.id asc").
		Find(&rows).Error
	if err != nil {
		return []repo.CollectionWithCount{}, err
	}
	return rows, nil
}

func (r *CollectionGormRepository) FindByID(ctx context.Context, id int64) (repo.CollectionWithCount, error) {
	var row repo.CollectionWithCount

	err := r.db.WithContext(ctx).
		Model(&model.Collection{}).
		Select("collections.*, count(products.id) as products_count").
		Joins("left join products on products.collection_id = collections.id").
		Where("collections.id = ?", id).
		Group("collections.id").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.CollectionWithCount{}, repo.ErrNotFound
	}
	if err != nil {
		return repo.CollectionWithCount{}, err
	}
	return row, nil
}

func (r *CollectionGormRepository) Create(ctx context.Context, c model.Collection) (model.Collection, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Collection{}, err
	}
	return c, nil
}

func (r *CollectionGormRepository) Update(ctx context.Context, c model.Collection) error {
	res := r.db.WithContext(ctx).Model(&model.Collection{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"title":               c.Title,
		"featured_product_id": c.FeaturedProductID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CollectionGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Collection{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type PromotionGormRepository struct {
	db *gorm.DB
}

func NewPromotionGormRepository(db *gorm.DB) *PromotionGormRepository {
	return &PromotionGormRepository{db: db}
}

func (r *PromotionGormRepository) List(ctx context.Context) ([]model.Promotion, error) {
	var promos []model.Promotion
	if err := r.db.WithContext(ctx).Order("discount asc").Find(&promos).Error; err != nil {
		return []model.Promotion{}, err
	}
	return promos, nil
}

func (r *PromotionGormRepository) FindByID(ctx context.Context, id int64) (model.Promotion, error) {
	var p model.Promotion
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Promotion{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Promotion{}, err
	}
	return p, nil
}

func (r *PromotionGormRepository) Create(ctx context.Context, p model.Promotion) (model.Promotion, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Promotion{}, err
	}
	return p, nil
}

func (r *PromotionGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Promotion{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
