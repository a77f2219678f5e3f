package services

import (
	"path/filepath"
	"testing"
	"time"

	"photo-contest-system/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "contest.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Contest{},
		&models.Photo{},
		&models.Submission{},
		&models.Vote{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, coins int64) *models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Coins:        coins,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
	return &user
}

// seedContest creates an Active contest whose window covers now.
func seedContest(t *testing.T, db *gorm.DB, entryFee, prizePoints int64, maxParticipants int) *models.Contest {
	t.Helper()
	now := time.Now()
	contest := models.Contest{
		ID:              uuid.NewString(),
		Title:           "Test Contest",
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
		Status:          models.ContestActive,
		MaxParticipants: maxParticipants,
		PrizePoints:     prizePoints,
		EntryFee:        entryFee,
	}
	if err := db.Create(&contest).Error; err != nil {
		t.Fatalf("failed to seed contest: %v", err)
	}
	return &contest
}

// seedEntry creates a photo plus its submission directly, bypassing the gate.
func seedEntry(t *testing.T, db *gorm.DB, userID, contestID, status string, submittedAt time.Time) *models.Photo {
	t.Helper()
	photo := models.Photo{
		ID:       uuid.NewString(),
		UserID:   userID,
		Title:    "photo-" + uuid.NewString()[:8],
		FilePath: "uploads/test.jpg",
	}
	if err := db.Create(&photo).Error; err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}
	sub := models.Submission{
		ID:          uuid.NewString(),
		PhotoID:     photo.ID,
		ContestID:   contestID,
		Status:      status,
		SubmittedAt: submittedAt,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("failed to seed submission: %v", err)
	}
	return &photo
}

func seedVote(t *testing.T, db *gorm.DB, userID, photoID, contestID string) {
	t.Helper()
	vote := models.Vote{
		ID:        uuid.NewString(),
		UserID:    userID,
		PhotoID:   photoID,
		ContestID: contestID,
	}
	if err := db.Create(&vote).Error; err != nil {
		t.Fatalf("failed to seed vote: %v", err)
	}
}

// seedVotes creates n fresh voters and one vote each for the photo.
func seedVotes(t *testing.T, db *gorm.DB, n int, photoID, contestID string) {
	t.Helper()
	for i := 0; i < n; i++ {
		voter := seedUser(t, db, "voter-"+uuid.NewString()[:8], 0)
		seedVote(t, db, voter.ID, photoID, contestID)
	}
}

func balanceOf(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	return user.Coins
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}
