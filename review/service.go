package review

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"staffport.io/staffport/core/models"
	"staffport.io/staffport/security"
)

const (
	MinTTL            = 60 * time.Second
	DefaultTTL        = 15 * time.Minute
	DefaultMaxTTL     = 30 * 24 * time.Hour
	DefaultSessionTTL = 30 * time.Minute
)

var (
	ErrInvalidTarget = errors.New("exactly one of email or userId is required")
	ErrUserNotFound  = errors.New("user not found")
	ErrUserInactive  = errors.New("user is not active")
	// ErrInvalidLink means the credential itself did not verify. No state changed.
	ErrInvalidLink = errors.New("invalid or expired link")
	// ErrLinkSpent covers both "already used" and "record expired" so the
	// response never leaks which one it was.
	ErrLinkSpent = errors.New("link already used or expired")
)

type Config struct {
	Secret     []byte
	BaseURL    string        // public origin the redemption link points at
	MaxTTL     time.Duration // upper clamp for admin-supplied TTLs
	SessionTTL time.Duration // lifetime of the session minted on redemption
}

type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	if cfg.MaxTTL <= 0 {
		cfg.MaxTTL = DefaultMaxTTL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	return &Service{cfg: cfg}
}

// ClampTTL bounds an admin-supplied TTL; zero means "use the default".
func (s *Service) ClampTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	if ttl < MinTTL {
		return MinTTL
	}
	if ttl > s.cfg.MaxTTL {
		return s.cfg.MaxTTL
	}
	return ttl
}

type IssueResult struct {
	Link      string
	ExpiresIn time.Duration
	User      models.User
}

// Issue mints a single-use review link for an active user, identified by
// email or id (exactly one).
func (s *Service) Issue(db *gorm.DB, email string, userID uint, ttl time.Duration) (*IssueResult, error) {
	if (email == "") == (userID == 0) {
		return nil, ErrInvalidTarget
	}

	var user models.User
	query := db.Model(&models.User{})
	if email != "" {
		query = query.Where("email = ?", email)
	} else {
		query = query.Where("id = ?", userID)
	}
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	ttl = s.ClampTTL(ttl)
	now := time.Now()
	jti := uuid.NewString()

	record := models.ReviewToken{
		Jti:       jti,
		UserID:    user.ID,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to persist review token: %w", err)
	}

	signed, err := security.CreateReviewToken(s.cfg.Secret, user.ID, jti, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign review token: %w", err)
	}

	return &IssueResult{
		Link:      s.cfg.BaseURL + "/review-access?token=" + url.QueryEscape(signed),
		ExpiresIn: ttl,
		User:      user,
	}, nil
}

type RedeemResult struct {
	SessionToken string
	ExpiresIn    time.Duration
	User         models.User
}

// Redeem consumes a one-time link. The claim on the ReviewToken row is a
// single conditional update so two racing redemptions can never both succeed:
// the row flips used_at from NULL exactly once.
func (s *Service) Redeem(db *gorm.DB, signed string, now time.Time) (*RedeemResult, error) {
	claims, err := security.ParseReviewToken(s.cfg.Secret, signed)
	if err != nil {
		return nil, ErrInvalidLink
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidLink
	}

	result := db.Model(&models.ReviewToken{}).
		Where("jti = ? AND used_at IS NULL AND expires_at > ?", claims.ID, now).
		Update("used_at", now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrLinkSpent
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		// The token was already claimed; a missing user here is corrupt data,
		// not a caller mistake.
		return nil, fmt.Errorf("review token %s has no user %d: %w", claims.ID, userID, err)
	}

	session, err := security.CreateSessionToken(s.cfg.Secret, &user, s.cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	// The grant is consumed: the account goes inactive even though the
	// redemption succeeded, so its credentials stop working everywhere else.
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("is_active", false).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate user %d: %w", user.ID, err)
	}
	user.IsActive = false

	return &RedeemResult{
		SessionToken: session,
		ExpiresIn:    s.cfg.SessionTTL,
		User:         user,
	}, nil
}

// PurgeExpired garbage-collects expired token rows. Redemption re-checks
// expiry itself, so this is housekeeping, not a correctness requirement.
func (s *Service) PurgeExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.ReviewToken{})
	return result.RowsAffected, result.Error
}
