package services

import (
	"errors"

	"photo-contest-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteService records votes. The self-vote and uniqueness rules are checked
// inside the insert transaction, with the (user, photo, contest) unique index
// as the backstop when two identical votes race: the loser's constraint
// violation surfaces as ErrDuplicateVote, not a raw storage error.
type VoteService struct {
	DB *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{DB: db}
}

// CastVote records one vote by userID on photoID within contestID.
// Voting is free; no coins change hands.
func (s *VoteService) CastVote(userID, photoID, contestID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.Submission
		if err := tx.Where("photo_id = ? AND contest_id = ?", photoID, contestID).
			First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPhotoNotInContest
			}
			return err
		}

		var contest models.Contest
		if err := tx.Where("id = ?", contestID).First(&contest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContestNotFound
			}
			return err
		}
		if contest.Status != models.ContestActive {
			return ErrContestNotActive
		}
		if sub.Status != models.SubmissionApproved {
			return ErrPhotoNotApproved
		}

		var photo models.Photo
		if err := tx.Where("id = ?", photoID).First(&photo).Error; err != nil {
			return err
		}
		if photo.UserID == userID {
			return ErrSelfVoteForbidden
		}

		var voter models.User
		if err := tx.Where("id = ?", userID).First(&voter).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var prior int64
		if err := tx.Model(&models.Vote{}).
			Where("user_id = ? AND photo_id = ? AND contest_id = ?", userID, photoID, contestID).
			Count(&prior).Error; err != nil {
			return err
		}
		if prior > 0 {
			return ErrDuplicateVote
		}

		vote := models.Vote{
			ID:        uuid.NewString(),
			UserID:    userID,
			PhotoID:   photoID,
			ContestID: contestID,
		}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateVote
			}
			return err
		}
		return nil
	})
}

// CastVoteEndpoint handles POST /photos/:photo_id/vote/:contest_id.
func (s *VoteService) CastVoteEndpoint(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if err := s.CastVote(userID, c.Params("photo_id"), c.Params("contest_id")); err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "vote cast successfully"})
}
