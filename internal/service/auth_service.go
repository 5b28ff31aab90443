package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"galleria/internal/auth"
	apperrors "galleria/internal/errors"
	"galleria/internal/mail"
	"galleria/internal/model"
	"galleria/internal/repository"
)

const (
	bcryptCost         = 10
	verificationExpiry = 24 * time.Hour
)

// AuthService handles registration, password and Google login, and email
// verification. Every successful authentication path issues a stateless
// bearer token.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (accessToken string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (accessToken string, user *model.User, err error)
	GoogleLogin(ctx context.Context, identity auth.Identity) (accessToken string, user *model.User, err error)
	SendVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) error
}

type authService struct {
	userRepo    repository.UserRepository
	jwtService  *auth.JWTService
	mailer      mail.Mailer
	frontendURL string
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, mailer mail.Mailer, frontendURL string) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		mailer:      mailer,
		frontendURL: frontendURL,
	}
}

// Register creates a password account, mails a verification link and logs
// the user straight in.
func (s *authService) Register(ctx context.Context, email, password, name string) (string, *model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	hashedStr := string(hashed)

	token := newVerificationToken()
	expiry := time.Now().Add(verificationExpiry)

	user := &model.User{
		Email:                   email,
		Password:                &hashedStr,
		Name:                    name,
		EmailVerificationToken:  &token,
		EmailVerificationExpiry: &expiry,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the existence check; the
		// unique email index catches it and it is still a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, apperrors.ErrEmailTaken
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	// Verification mail is best-effort: the account exists either way and
	// the token can be re-sent.
	if err := s.mailer.SendVerification(email, s.verificationLink(token)); err != nil {
		log.Printf("send verification mail to %s: %v", email, err)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, user, nil
}

// Login authenticates a password account. An account without a password is
// rejected with its own error so the client can point at social login.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !user.HasPassword() {
		return "", nil, apperrors.ErrSocialLoginRequired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, user, nil
}

// GoogleLogin reconciles a provider identity against the user table:
// match by provider id, else link by email, else provision a new
// OAuth-only account. Linking never alters an existing password.
func (s *authService) GoogleLogin(ctx context.Context, identity auth.Identity) (string, *model.User, error) {
	user, err := s.userRepo.FindByGoogleID(ctx, identity.ProviderID)
	switch {
	case err == nil:
		// Already linked, just authenticate.
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.linkOrProvision(ctx, identity)
		if err != nil {
			return "", nil, err
		}
	default:
		return "", nil, fmt.Errorf("find user by google id: %w", err)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, user, nil
}

func (s *authService) linkOrProvision(ctx context.Context, identity auth.Identity) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, identity.Email)
	if err == nil {
		// Existing password account with a matching email: attach the
		// provider id, leave the password untouched.
		user.GoogleID = &identity.ProviderID
		user.EmailVerified = true
		user.EmailVerificationToken = nil
		user.EmailVerificationExpiry = nil
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("link google account: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	user = &model.User{
		Email:         identity.Email,
		Name:          identity.Name,
		EmailVerified: true,
		GoogleID:      &identity.ProviderID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("provision oauth user: %w", err)
	}
	return user, nil
}

// SendVerification rotates the user's verification token and re-sends the
// mail. Verified accounts are a no-op.
func (s *authService) SendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.EmailVerified {
		return nil
	}

	token := newVerificationToken()
	expiry := time.Now().Add(verificationExpiry)
	user.EmailVerificationToken = &token
	user.EmailVerificationExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	if err := s.mailer.SendVerification(user.Email, s.verificationLink(token)); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}

// VerifyEmail consumes a verification token, marking the account verified
// and clearing the token pair.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.ErrVerificationInvalid
	}

	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrVerificationInvalid
		}
		return fmt.Errorf("find user by token: %w", err)
	}
	if user.EmailVerificationExpiry == nil || time.Now().After(*user.EmailVerificationExpiry) {
		return apperrors.ErrVerificationInvalid
	}

	user.EmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

func (s *authService) verificationLink(token string) string {
	return s.frontendURL + "/verify-email?token=" + url.QueryEscape(token)
}

func newVerificationToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
