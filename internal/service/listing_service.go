package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	apperrors "galleria/internal/errors"
	"galleria/internal/model"
	"galleria/internal/repository"
	"galleria/internal/storage"
)

const (
	// DefaultPageSize applies when the caller omits or zeroes the limit.
	DefaultPageSize = 12

	recentPageSize = 20
)

// ObjectGateway is the slice of the storage client the services use.
// *storage.Client satisfies it.
type ObjectGateway interface {
	PresignUpload(ctx context.Context, fileName, contentType string, expiry time.Duration) (uploadURL, key string, err error)
	PresignView(ctx context.Context, key string, expiry time.Duration) (string, error)
	Upload(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ListingService produces ordered, cursor-paginated views of auctions, each
// augmented with a short-lived display URL for its image.
type ListingService interface {
	Create(ctx context.Context, ownerID uint, title, image string, categoryID *uint) (*model.Auction, error)
	List(ctx context.Context, filter repository.AuctionFilter, limit int, cursor *uint) (*model.AuctionPage, error)
	FindRecent(ctx context.Context) ([]model.EnrichedAuction, error)
	FindAllByUser(ctx context.Context, ownerID uint) ([]model.EnrichedAuction, error)
	FindOne(ctx context.Context, id uint) (*model.EnrichedAuction, error)
	Update(ctx context.Context, id uint, title, image *string, categoryID *uint) (*model.EnrichedAuction, error)
	Delete(ctx context.Context, id uint) error
}

type listingService struct {
	auctionRepo repository.AuctionRepository
	store       ObjectGateway
}

// NewListingService creates a new listing service.
func NewListingService(auctionRepo repository.AuctionRepository, store ObjectGateway) ListingService {
	return &listingService{
		auctionRepo: auctionRepo,
		store:       store,
	}
}

// Create inserts a listing owned by the caller. The owner always comes from
// the authenticated principal, never from the request body.
func (s *listingService) Create(ctx context.Context, ownerID uint, title, image string, categoryID *uint) (*model.Auction, error) {
	auction := &model.Auction{
		Title:      title,
		Image:      image,
		CategoryID: categoryID,
		UserID:     &ownerID,
	}
	if err := s.auctionRepo.Create(ctx, auction); err != nil {
		return nil, fmt.Errorf("create auction: %w", err)
	}
	return auction, nil
}

// List walks auctions newest-first with keyset pagination: fetch limit+1
// rows after the cursor, truncate to limit, and hand back the last kept id
// as the next cursor when a further page exists.
func (s *listingService) List(ctx context.Context, filter repository.AuctionFilter, limit int, cursor *uint) (*model.AuctionPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	rows, err := s.auctionRepo.ListPage(ctx, filter, limit+1, cursor)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	page := &model.AuctionPage{
		Items:   s.enrichAll(ctx, rows),
		HasMore: hasMore,
	}
	if hasMore {
		last := rows[len(rows)-1].ID
		page.NextCursor = &last
	}
	return page, nil
}

// FindRecent returns the newest listings, fixed size, no cursor.
func (s *listingService) FindRecent(ctx context.Context) ([]model.EnrichedAuction, error) {
	rows, err := s.auctionRepo.ListRecent(ctx, recentPageSize)
	if err != nil {
		return nil, fmt.Errorf("list recent auctions: %w", err)
	}
	return s.enrichAll(ctx, rows), nil
}

// FindAllByUser returns every listing of one owner, unpaginated.
func (s *listingService) FindAllByUser(ctx context.Context, ownerID uint) ([]model.EnrichedAuction, error) {
	rows, err := s.auctionRepo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list auctions by user: %w", err)
	}
	return s.enrichAll(ctx, rows), nil
}

func (s *listingService) FindOne(ctx context.Context, id uint) (*model.EnrichedAuction, error) {
	auction, err := s.auctionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAuctionNotFound
		}
		return nil, fmt.Errorf("find auction: %w", err)
	}
	enriched := s.enrich(ctx, *auction)
	return &enriched, nil
}

// Update applies the given fields in one conditional statement; a zero match
// surfaces as not found, so no check-then-mutate window exists.
func (s *listingService) Update(ctx context.Context, id uint, title, image *string, categoryID *uint) (*model.EnrichedAuction, error) {
	fields := map[string]interface{}{}
	if title != nil {
		fields["title"] = *title
	}
	if image != nil {
		fields["image"] = *image
	}
	if categoryID != nil {
		fields["category_id"] = *categoryID
	}

	if len(fields) > 0 {
		ok, err := s.auctionRepo.UpdateFields(ctx, id, fields)
		if err != nil {
			return nil, fmt.Errorf("update auction: %w", err)
		}
		if !ok {
			return nil, apperrors.ErrAuctionNotFound
		}
	}
	return s.FindOne(ctx, id)
}

// Delete removes the listing and best-effort deletes its backing object when
// the image is a managed key. A storage failure is logged, never surfaced.
func (s *listingService) Delete(ctx context.Context, id uint) error {
	auction, err := s.auctionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAuctionNotFound
		}
		return fmt.Errorf("find auction: %w", err)
	}

	ok, err := s.auctionRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete auction: %w", err)
	}
	if !ok {
		return apperrors.ErrAuctionNotFound
	}

	if storage.IsManagedKey(auction.Image) {
		if err := s.store.Delete(ctx, auction.Image); err != nil {
			log.Printf("delete image object %s: %v", auction.Image, err)
		}
	}
	return nil
}

// enrichAll signs every managed image key of a page concurrently and waits
// for all of them. A failed signing degrades only its own row; results keep
// query order.
func (s *listingService) enrichAll(ctx context.Context, rows []model.Auction) []model.EnrichedAuction {
	items := make([]model.EnrichedAuction, len(rows))

	var wg sync.WaitGroup
	for i, row := range rows {
		items[i].Auction = row
		if !storage.IsManagedKey(row.Image) {
			// Legacy absolute URL or empty value: pass through unsigned.
			items[i].ImageURL = row.Image
			continue
		}

		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			items[i].ImageURL = s.signOrFallback(ctx, key)
		}(i, row.Image)
	}
	wg.Wait()

	return items
}

func (s *listingService) enrich(ctx context.Context, row model.Auction) model.EnrichedAuction {
	enriched := model.EnrichedAuction{Auction: row}
	if !storage.IsManagedKey(row.Image) {
		enriched.ImageURL = row.Image
		return enriched
	}
	enriched.ImageURL = s.signOrFallback(ctx, row.Image)
	return enriched
}

func (s *listingService) signOrFallback(ctx context.Context, key string) string {
	url, err := s.store.PresignView(ctx, key, storage.DefaultViewExpiry)
	if err != nil {
		log.Printf("sign view url for %s: %v", key, err)
		return key
	}
	return url
}
