package services

import (
	"errors"
	"sort"
	"time"

	"photo-contest-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LeaderboardService ranks approved submissions by vote count using standard
// competition ranking: tied photos share a rank, the next distinct vote count
// skips the occupied positions (5,5,2 ranks as 1,1,3).
type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// LeaderboardRow is one ranked entry for a contest.
type LeaderboardRow struct {
	PhotoID     string    `json:"photo_id"`
	PhotoTitle  string    `json:"photo_title"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	VoteCount   int64     `json:"vote_count"`
	Rank        int       `json:"rank"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Rank computes the leaderboard for a contest.
func (s *LeaderboardService) Rank(contestID string) ([]LeaderboardRow, error) {
	var contest models.Contest
	if err := s.DB.Select("id").Where("id = ?", contestID).First(&contest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}
	return rankWithin(s.DB, contestID)
}

// rankWithin runs the ranking query on the given handle. Finalize passes its
// own transaction so the winner comes from a single consistent snapshot.
// Rows are ordered by votes descending, ties broken by earliest submission
// then photo id, so index 0 is always the deterministic payout recipient.
func rankWithin(tx *gorm.DB, contestID string) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := tx.Model(&models.Submission{}).
		Select(`photos.id AS photo_id,
			photos.title AS photo_title,
			users.id AS owner_id,
			users.name AS owner_name,
			submissions.submitted_at AS submitted_at,
			(SELECT COUNT(*) FROM votes
				WHERE votes.photo_id = submissions.photo_id
				AND votes.contest_id = submissions.contest_id) AS vote_count`).
		Joins("JOIN photos ON photos.id = submissions.photo_id").
		Joins("JOIN users ON users.id = photos.user_id").
		Where("submissions.contest_id = ? AND submissions.status = ?",
			contestID, models.SubmissionApproved).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].VoteCount != rows[j].VoteCount {
			return rows[i].VoteCount > rows[j].VoteCount
		}
		if !rows[i].SubmittedAt.Equal(rows[j].SubmittedAt) {
			return rows[i].SubmittedAt.Before(rows[j].SubmittedAt)
		}
		return rows[i].PhotoID < rows[j].PhotoID
	})

	for i := range rows {
		if i > 0 && rows[i].VoteCount == rows[i-1].VoteCount {
			rows[i].Rank = rows[i-1].Rank
		} else {
			rows[i].Rank = i + 1
		}
	}
	return rows, nil
}

// GetLeaderboardEndpoint handles GET /contests/:id/leaderboard.
func (s *LeaderboardService) GetLeaderboardEndpoint(c *fiber.Ctx) error {
	rows, err := s.Rank(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"contest_id": c.Params("id"), "leaderboard": rows})
}
