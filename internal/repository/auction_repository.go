package repository

import (
	"context"

	"gorm.io/gorm"

	"galleria/internal/model"
)

// AuctionFilter narrows listing queries. Both predicates are optional and
// ANDed together when both are present.
type AuctionFilter struct {
	CategoryID *uint
	UserID     *uint
}

// AuctionRepository defines auction persistence operations.
type AuctionRepository interface {
	Create(ctx context.Context, auction *model.Auction) error
	FindByID(ctx context.Context, id uint) (*model.Auction, error)
	// ListPage fetches up to limit rows matching the filter ordered by
	// created_at DESC, id DESC, resuming strictly after the cursor id when
	// one is given. Callers pass limit+1 to detect a further page.
	ListPage(ctx context.Context, filter AuctionFilter, limit int, cursor *uint) ([]model.Auction, error)
	ListRecent(ctx context.Context, limit int) ([]model.Auction, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Auction, error)
	// UpdateFields applies the given columns in one conditional statement
	// and reports whether a row matched.
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (bool, error)
	// Delete removes the row in one conditional statement and reports
	// whether a row matched.
	Delete(ctx context.Context, id uint) (bool, error)
}

type auctionRepository struct {
	db *gorm.DB
}

// NewAuctionRepository builds a GORM-backed repository.
func NewAuctionRepository(db *gorm.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

func (r *auctionRepository) Create(ctx context.Context, auction *model.Auction) error {
	return r.db.WithContext(ctx).Create(auction).Error
}

func (r *auctionRepository) FindByID(ctx context.Context, id uint) (*model.Auction, error) {
	var auction model.Auction
	if err := r.db.WithContext(ctx).First(&auction, id).Error; err != nil {
		return nil, err
	}
	return &auction, nil
}

func (r *auctionRepository) ListPage(ctx context.Context, filter AuctionFilter, limit int, cursor *uint) ([]model.Auction, error) {
	q := r.applyFilter(r.db.WithContext(ctx), filter)
	if cursor != nil {
		// Keyset resume: ids are assigned in creation order, so id < cursor
		// continues exactly after the last seen row even if that row has
		// since been deleted.
		q = q.Where("id < ?", *cursor)
	}

	var auctions []model.Auction
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}

func (r *auctionRepository) ListRecent(ctx context.Context, limit int) ([]model.Auction, error) {
	var auctions []model.Auction
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}

func (r *auctionRepository) ListByUser(ctx context.Context, userID uint) ([]model.Auction, error) {
	var auctions []model.Auction
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}

func (r *auctionRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Auction{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *auctionRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Auction{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *auctionRepository) applyFilter(q *gorm.DB, filter AuctionFilter) *gorm.DB {
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	return q
}
