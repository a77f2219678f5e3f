package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"photo-contest-system/models"
	"photo-contest-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionService admits photos into contests. A submission is one atomic
// unit: contest window/status/capacity checks, entry-fee debit, photo row and
// submission row all commit together or not at all.
type SubmissionService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewSubmissionService(db *gorm.DB, ledger *LedgerService) *SubmissionService {
	return &SubmissionService{DB: db, Ledger: ledger}
}

// SubmitPhoto creates the photo and its contest submission, debiting the
// entry fee from the locked balance row. Any failed precondition aborts the
// whole unit: no photo, no submission, no debit.
func (s *SubmissionService) SubmitPhoto(userID, contestID, title, filePath string) (*models.Photo, error) {
	var photo models.Photo
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var contest models.Contest
		if err := tx.Where("id = ?", contestID).First(&contest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContestNotFound
			}
			return err
		}
		if contest.IsTerminal() {
			return ErrContestClosed
		}
		now := time.Now()
		if now.Before(contest.StartDate) {
			return ErrContestNotOpenYet
		}
		if now.After(contest.EndDate) {
			return ErrContestExpired
		}

		// One entry per user per contest.
		var prior int64
		if err := tx.Model(&models.Submission{}).
			Joins("JOIN photos ON photos.id = submissions.photo_id").
			Where("submissions.contest_id = ? AND photos.user_id = ?", contestID, userID).
			Count(&prior).Error; err != nil {
			return err
		}
		if prior > 0 {
			return ErrDuplicateSubmission
		}

		if contest.MaxParticipants > 0 {
			var count int64
			if err := tx.Model(&models.Submission{}).
				Where("contest_id = ?", contestID).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(contest.MaxParticipants) {
				return ErrContestFull
			}
		}

		if err := s.Ledger.Debit(tx, userID, contest.EntryFee); err != nil {
			return err
		}

		photo = models.Photo{
			ID:       uuid.NewString(),
			UserID:   userID,
			Title:    title,
			FilePath: filePath,
		}
		if err := tx.Create(&photo).Error; err != nil {
			return err
		}

		sub := models.Submission{
			ID:        uuid.NewString(),
			PhotoID:   photo.ID,
			ContestID: contestID,
			Status:    models.SubmissionPending,
		}
		if err := tx.Create(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSubmission
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// SetSubmissionStatus records the moderation outcome for a submission.
func (s *SubmissionService) SetSubmissionStatus(submissionID, status string) (*models.Submission, error) {
	if status != models.SubmissionApproved && status != models.SubmissionRejected {
		return nil, ErrInvalidStatus
	}
	var sub models.Submission
	if err := s.DB.Where("id = ?", submissionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if err := s.DB.Model(&sub).Update("status", status).Error; err != nil {
		return nil, err
	}
	sub.Status = status
	return &sub, nil
}

// UpdatePhotoTitle renames a photo after an owner check.
func (s *SubmissionService) UpdatePhotoTitle(userID, photoID, title string) (*models.Photo, error) {
	if title == "" {
		return nil, ErrMissingFields
	}
	var photo models.Photo
	if err := s.DB.Where("id = ?", photoID).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	if photo.UserID != userID {
		return nil, ErrNotPhotoOwner
	}
	if err := s.DB.Model(&photo).Update("title", title).Error; err != nil {
		return nil, err
	}
	photo.Title = title
	return &photo, nil
}

// DeletePhoto removes a photo with its submissions and votes, owner only.
func (s *SubmissionService) DeletePhoto(userID, photoID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var photo models.Photo
		if err := tx.Where("id = ?", photoID).First(&photo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPhotoNotFound
			}
			return err
		}
		if photo.UserID != userID {
			return ErrNotPhotoOwner
		}
		if err := tx.Where("photo_id = ?", photoID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", photoID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&photo).Error
	})
}

// --- Handlers ---

// SubmitPhotoEndpoint accepts a multipart photo upload for a contest and runs
// the submission gate. The stored file is removed again when admission fails.
func (s *SubmissionService) SubmitPhotoEndpoint(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	contestID := c.Params("id")
	title := c.FormValue("title")

	fileHeader, err := c.FormFile("photo")
	if err != nil || title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and photo are required"})
	}
	if !utils.IsAllowedPhotoFile(fileHeader.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid file type, allowed: png, jpg, jpeg, gif"})
	}

	filename := utils.PhotoFileName(userID, fileHeader.Filename)
	var filePath, localPath string
	if utils.R2Enabled() {
		url, err := utils.UploadPhotoToR2(fileHeader, "photos/"+filename)
		if err != nil {
			log.Printf("R2 upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store photo"})
		}
		filePath = url
	} else {
		localPath = utils.GetUploadPath(filename)
		if err := utils.SaveFile(fileHeader, localPath); err != nil {
			log.Printf("failed to save upload: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store photo"})
		}
		filePath = "uploads/" + filename
	}

	photo, err := s.SubmitPhoto(userID, contestID, title, filePath)
	if err != nil {
		if localPath != "" {
			if rmErr := os.Remove(localPath); rmErr != nil {
				log.Printf("failed to clean up rejected upload %s: %v", localPath, rmErr)
			}
		}
		return errorJSON(c, err)
	}

	NotifyAdmin(fmt.Sprintf("New submission: %q by user %s in contest %s", title, userID, contestID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "photo submitted successfully",
		"photo":   photo,
	})
}

// SetSubmissionStatusEndpoint is the moderation hook (admin only).
func (s *SubmissionService) SetSubmissionStatusEndpoint(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	sub, err := s.SetSubmissionStatus(c.Params("id"), req.Status)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "submission status updated", "submission": sub})
}

// UpdatePhotoEndpoint renames a photo (owner only).
func (s *SubmissionService) UpdatePhotoEndpoint(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	photo, err := s.UpdatePhotoTitle(userID, c.Params("id"), req.Title)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "photo updated", "photo": photo})
}

// DeletePhotoEndpoint deletes a photo (owner only).
func (s *SubmissionService) DeletePhotoEndpoint(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if err := s.DeletePhoto(userID, c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "photo deleted"})
}
