package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"galleria/internal/config"
	"galleria/internal/db"
	"galleria/internal/model"
	"galleria/internal/repository"
)

var categories = []string{"Paintings", "Sculpture", "Photography", "Prints", "Furniture"}

var auctions = []struct {
	title    string
	image    string
	category string
}{
	{"Sunset over the harbor", "uploads/6f1d5f3a-9b82-4c1e-9a44-8f4c1a2b3c4d.jpg", "Paintings"},
	{"Bronze dancer", "uploads/1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d.jpg", "Sculpture"},
	{"Street scene, 1987", "https://images.example.com/legacy/street-scene.jpg", "Photography"},
	{"Abstract composition no. 4", "uploads/9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b.png", "Paintings"},
	{"Mid-century armchair", "uploads/0f1e2d3c-4b5a-4697-8879-a0b1c2d3e4f5.jpg", "Furniture"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Category{}, &model.Auction{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	auctionRepo := repository.NewAuctionRepository(gormDB)

	seller, err := seedUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	byTitle := map[string]uint{}
	for _, title := range categories {
		existing, err := categoryRepo.FindByTitle(ctx, title)
		if err == nil {
			byTitle[title] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to check category %q: %v", title, err)
		}

		category := &model.Category{Title: title}
		if err := categoryRepo.Create(ctx, category); err != nil {
			log.Fatalf("Failed to create category %q: %v", title, err)
		}
		byTitle[title] = category.ID
	}
	log.Printf("Seeded %d categories", len(categories))

	created := 0
	for _, a := range auctions {
		categoryID := byTitle[a.category]
		auction := &model.Auction{
			Title:      a.title,
			Image:      a.image,
			CategoryID: &categoryID,
			UserID:     &seller.ID,
		}
		if err := auctionRepo.Create(ctx, auction); err != nil {
			log.Printf("Failed to create auction %q: %v", a.title, err)
			continue
		}
		created++
	}
	log.Printf("Seeded %d auctions", created)
	log.Println("Seed script finished")
}

func seedUser(ctx context.Context, userRepo repository.UserRepository) (*model.User, error) {
	const email = "seller@galleria.local"

	existing, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashedStr := string(hashed)

	user := &model.User{
		Email:         email,
		Password:      &hashedStr,
		Name:          "Demo Seller",
		EmailVerified: true,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
