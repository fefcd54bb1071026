package review

import (
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"staffport.io/staffport/core/models"
	"staffport.io/staffport/security"
)

var testSecret = []byte("review-service-test-secret")

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.ReviewToken{}))

	svc := NewService(Config{
		Secret:  testSecret,
		BaseURL: "https://portal.staffport.io",
	})
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, email string, active bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := models.User{
		Name:     "Reviewed Staff",
		Email:    email,
		Password: hash,
		Role:     models.RoleStaff,
		IsActive: active,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// tokenFromLink pulls the signed credential back out of the issued URL.
func tokenFromLink(t *testing.T, link string) string {
	t.Helper()

	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func TestIssueTargetValidation(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "target@staffport.local", true)

	tests := []struct {
		name     string
		email    string
		userID   uint
		expected error
	}{
		{"Neither email nor id", "", 0, ErrInvalidTarget},
		{"Both email and id", user.Email, user.ID, ErrInvalidTarget},
		{"Unknown email", "nobody@staffport.local", 0, ErrUserNotFound},
		{"Unknown id", "", 9999, ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Issue(db, tt.email, tt.userID, 0)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestIssueRejectsInactiveUser(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "inactive@staffport.local", false)

	_, err := svc.Issue(db, "", user.ID, 0)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestIssueByEmailAndByID(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "either@staffport.local", true)

	byEmail, err := svc.Issue(db, user.Email, 0, time.Hour)
	require.NoError(t, err)
	byID, err := svc.Issue(db, "", user.ID, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, user.ID, byEmail.User.ID)
	assert.Equal(t, user.ID, byID.User.ID)
	assert.Contains(t, byEmail.Link, "https://portal.staffport.io/review-access?token=")

	// Every grant gets its own row.
	var count int64
	require.NoError(t, db.Model(&models.ReviewToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestClampTTL(t *testing.T) {
	svc := NewService(Config{Secret: testSecret, MaxTTL: 24 * time.Hour})

	tests := []struct {
		name     string
		ttl      time.Duration
		expected time.Duration
	}{
		{"Zero falls back to the default", 0, DefaultTTL},
		{"Negative falls back to the default", -time.Minute, DefaultTTL},
		{"Below the floor", 10 * time.Second, MinTTL},
		{"Within bounds", 2 * time.Hour, 2 * time.Hour},
		{"Above the ceiling", 48 * time.Hour, 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.ClampTTL(tt.ttl))
		})
	}
}

func TestRedeemLifecycle(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "lifecycle@staffport.local", true)

	issued, err := svc.Issue(db, user.Email, 0, time.Hour)
	require.NoError(t, err)
	token := tokenFromLink(t, issued.Link)

	result, err := svc.Redeem(db, token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionTTL, result.ExpiresIn)
	assert.False(t, result.User.IsActive)

	// The minted session is a regular signed session for the user.
	claims, err := security.ParseSessionToken(testSecret, result.SessionToken)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, user.Email, claims.Email)

	// Redemption deactivates the account.
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.False(t, stored.IsActive)

	// The second attempt with the same link always fails.
	_, err = svc.Redeem(db, token, time.Now())
	assert.ErrorIs(t, err, ErrLinkSpent)

	// Re-issuing for a now-inactive user is refused until reactivation.
	_, err = svc.Issue(db, user.Email, 0, time.Hour)
	assert.ErrorIs(t, err, ErrUserInactive)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("is_active", true).Error)
	_, err = svc.Issue(db, user.Email, 0, time.Hour)
	assert.NoError(t, err)
}

func TestRedeemRejectsBadCredentials(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "badcreds@staffport.local", true)

	issued, err := svc.Issue(db, user.Email, 0, time.Hour)
	require.NoError(t, err)
	token := tokenFromLink(t, issued.Link)

	t.Run("Garbage token", func(t *testing.T) {
		_, err := svc.Redeem(db, "not-a-jwt", time.Now())
		assert.ErrorIs(t, err, ErrInvalidLink)
	})

	t.Run("Wrong signing key", func(t *testing.T) {
		forged, err := security.CreateReviewToken([]byte("some-other-secret"), user.ID, "forged-jti", time.Hour)
		require.NoError(t, err)
		_, err = svc.Redeem(db, forged, time.Now())
		assert.ErrorIs(t, err, ErrInvalidLink)
	})

	t.Run("Expired signature", func(t *testing.T) {
		// JWT expiry makes the credential itself invalid; this is the
		// 400 path, not the 410 record-expiry path.
		expired, err := security.CreateReviewToken(testSecret, user.ID, "expired-sig-jti", -time.Minute)
		require.NoError(t, err)
		_, err = svc.Redeem(db, expired, time.Now())
		assert.ErrorIs(t, err, ErrInvalidLink)
	})

	t.Run("Signature valid but no matching record", func(t *testing.T) {
		orphan, err := security.CreateReviewToken(testSecret, user.ID, "no-such-record", time.Hour)
		require.NoError(t, err)
		_, err = svc.Redeem(db, orphan, time.Now())
		assert.ErrorIs(t, err, ErrLinkSpent)
	})

	t.Run("Bad credentials never consume the real grant", func(t *testing.T) {
		_, err := svc.Redeem(db, token, time.Now())
		assert.NoError(t, err)
	})
}

func TestRedeemHonorsRecordExpiry(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "expiry@staffport.local", true)

	issued, err := svc.Issue(db, user.Email, 0, 24*time.Hour)
	require.NoError(t, err)
	token := tokenFromLink(t, issued.Link)

	// Expire the stored record while the signature stays valid. The record,
	// not the JWT, decides.
	require.NoError(t, db.Model(&models.ReviewToken{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = svc.Redeem(db, token, time.Now())
	assert.ErrorIs(t, err, ErrLinkSpent)

	// The grant was not consumed and the user stayed active.
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, stored.IsActive)
}

func TestRedeemConcurrentSingleWinner(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "race@staffport.local", true)

	issued, err := svc.Issue(db, user.Email, 0, time.Hour)
	require.NoError(t, err)
	token := tokenFromLink(t, issued.Link)

	const attempts = 4
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Redeem(db, token, time.Now())
		}(i)
	}
	wg.Wait()

	var wins, spent int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			assert.ErrorIs(t, err, ErrLinkSpent)
			spent++
		}
	}
	assert.Equal(t, 1, wins, "exactly one redemption may claim the grant")
	assert.Equal(t, attempts-1, spent)
}

func TestPurgeExpired(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "purge@staffport.local", true)

	now := time.Now()
	rows := []models.ReviewToken{
		{Jti: "expired-1", UserID: user.ID, ExpiresAt: now.Add(-time.Hour)},
		{Jti: "expired-2", UserID: user.ID, ExpiresAt: now.Add(-time.Minute)},
		{Jti: "live-1", UserID: user.ID, ExpiresAt: now.Add(time.Hour)},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	purged, err := svc.PurgeExpired(db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, purged)

	var remaining int64
	require.NoError(t, db.Model(&models.ReviewToken{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}
