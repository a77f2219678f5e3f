package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"photo-contest-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContestService drives the contest state machine: creation, cancellation,
// the time-driven status sweep and the exactly-once finalize/payout.
type ContestService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewContestService(db *gorm.DB, ledger *LedgerService) *ContestService {
	return &ContestService{DB: db, Ledger: ledger}
}

// FinalizeResult reports what a finalize call did. AlreadyFinalized means the
// contest was terminal before the call and nothing changed.
type FinalizeResult struct {
	ContestID        string `json:"contest_id"`
	AlreadyFinalized bool   `json:"already_finalized"`
	WinnerUserID     string `json:"winner_user_id,omitempty"`
	WinnerName       string `json:"winner_name,omitempty"`
	WinningPhotoID   string `json:"winning_photo_id,omitempty"`
	PrizeAwarded     int64  `json:"prize_awarded"`
	Result           string `json:"result"`
}

// CreateContest validates and stores a new contest. The initial status is
// Upcoming, or Active when the window already covers now.
func (s *ContestService) CreateContest(managerID, title string, start, end time.Time, maxParticipants int, prizePoints, entryFee int64) (*models.Contest, error) {
	if title == "" {
		return nil, ErrMissingFields
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidContest)
	}
	now := time.Now()
	if end.Before(now) {
		return nil, fmt.Errorf("%w: end date in the past", ErrInvalidContest)
	}
	if maxParticipants <= 0 {
		return nil, fmt.Errorf("%w: max participants must be positive", ErrInvalidContest)
	}
	if prizePoints < 0 || entryFee < 0 {
		return nil, ErrNegativeAmount
	}

	status := models.ContestUpcoming
	if !now.Before(start) {
		status = models.ContestActive
	}
	contest := models.Contest{
		ID:              uuid.NewString(),
		Title:           title,
		StartDate:       start,
		EndDate:         end,
		Status:          status,
		MaxParticipants: maxParticipants,
		PrizePoints:     prizePoints,
		EntryFee:        entryFee,
		ManagerID:       managerID,
	}
	if err := s.DB.Create(&contest).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

// CancelContest marks a contest Cancelled. Only an administrative action ever
// enters this state; Completed contests cannot be cancelled. Cancelling an
// already cancelled contest is a no-op.
func (s *ContestService) CancelContest(contestID string) (*models.Contest, error) {
	var contest models.Contest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("id = ?", contestID).First(&contest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContestNotFound
			}
			return err
		}
		if contest.Status == models.ContestCancelled {
			return nil
		}
		if contest.Status == models.ContestCompleted {
			return ErrContestClosed
		}
		if err := tx.Model(&contest).Update("status", models.ContestCancelled).Error; err != nil {
			return err
		}
		contest.Status = models.ContestCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contest, nil
}

// RefreshContestStatuses is the time-driven sweep: Upcoming contests whose
// window has opened become Active, non-terminal contests past their end
// become Completed. Forward-only; Cancelled and Completed rows are never
// touched. Returns the number of contests transitioned. Idempotent.
func (s *ContestService) RefreshContestStatuses() (int64, error) {
	var updated int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		activated := tx.Model(&models.Contest{}).
			Where("status = ? AND start_date <= ? AND end_date >= ?",
				models.ContestUpcoming, now, now).
			Update("status", models.ContestActive)
		if activated.Error != nil {
			return activated.Error
		}
		completed := tx.Model(&models.Contest{}).
			Where("status IN ? AND end_date < ?",
				[]string{models.ContestUpcoming, models.ContestActive}, now).
			Update("status", models.ContestCompleted)
		if completed.Error != nil {
			return completed.Error
		}
		updated = activated.RowsAffected + completed.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// FinalizeContest closes a contest and pays the prize exactly once. The
// contest row is locked for the whole unit so two racing finalize calls
// cannot both pass the terminal-status guard. Ranking, payout and the
// status/result update commit together or not at all.
func (s *ContestService) FinalizeContest(contestID string) (*FinalizeResult, error) {
	var res FinalizeResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var contest models.Contest
		if err := forUpdate(tx).Where("id = ?", contestID).First(&contest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContestNotFound
			}
			return err
		}

		res = FinalizeResult{ContestID: contestID}
		if contest.IsTerminal() {
			res.AlreadyFinalized = true
			if contest.Result != nil {
				res.Result = *contest.Result
			}
			return nil
		}

		rows, err := rankWithin(tx, contestID)
		if err != nil {
			return err
		}

		switch {
		case len(rows) == 0:
			res.Result = "no approved submissions"
		case rows[0].VoteCount == 0:
			res.Result = "no votes cast"
		default:
			winner := rows[0]
			if err := s.Ledger.Credit(tx, winner.OwnerID, contest.PrizePoints); err != nil {
				return err
			}
			res.WinnerUserID = winner.OwnerID
			res.WinnerName = winner.OwnerName
			res.WinningPhotoID = winner.PhotoID
			res.PrizeAwarded = contest.PrizePoints
			res.Result = fmt.Sprintf("Winner: %s with photo %q (%d votes)",
				winner.OwnerName, winner.PhotoTitle, winner.VoteCount)
		}

		return tx.Model(&contest).Updates(map[string]interface{}{
			"status": models.ContestCompleted,
			"result": res.Result,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	if !res.AlreadyFinalized {
		log.Printf("Contest %s finalized: %s", contestID, res.Result)
		NotifyAdmin(fmt.Sprintf("Contest %s finalized: %s", contestID, res.Result))
	}
	return &res, nil
}

// GetContest returns one contest with its submission and vote totals.
func (s *ContestService) GetContest(contestID string) (*models.Contest, error) {
	var contest models.Contest
	if err := s.DB.Where("id = ?", contestID).First(&contest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}
	if err := s.DB.Model(&models.Submission{}).
		Where("contest_id = ?", contestID).
		Count(&contest.TotalSubmissions).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Vote{}).
		Where("contest_id = ?", contestID).
		Count(&contest.TotalVotes).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

// --- Handlers ---

// CreateContestEndpoint creates a contest (admin only).
func (s *ContestService) CreateContestEndpoint(c *fiber.Ctx) error {
	managerID, _ := c.Locals("user_id").(string)
	var req struct {
		Title           string    `json:"title"`
		StartDate       time.Time `json:"start_date"`
		EndDate         time.Time `json:"end_date"`
		MaxParticipants int       `json:"max_participants"`
		PrizePoints     int64     `json:"prize_points"`
		EntryFee        int64     `json:"entry_fee"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	contest, err := s.CreateContest(managerID, req.Title, req.StartDate, req.EndDate,
		req.MaxParticipants, req.PrizePoints, req.EntryFee)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(contest)
}

// CancelContestEndpoint cancels a contest (admin only).
func (s *ContestService) CancelContestEndpoint(c *fiber.Ctx) error {
	contest, err := s.CancelContest(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "contest cancelled", "contest": contest})
}

// FinalizeContestEndpoint closes a contest and awards the prize (admin only).
func (s *ContestService) FinalizeContestEndpoint(c *fiber.Ctx) error {
	res, err := s.FinalizeContest(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(res)
}

// RefreshStatusesEndpoint runs the sweep on demand.
func (s *ContestService) RefreshStatusesEndpoint(c *fiber.Ctx) error {
	updated, err := s.RefreshContestStatuses()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "status refresh failed"})
	}
	return c.JSON(fiber.Map{"updated": updated})
}

// GetContestEndpoint returns contest details.
func (s *ContestService) GetContestEndpoint(c *fiber.Ctx) error {
	contest, err := s.GetContest(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(contest)
}

// GetContestsEndpoint lists contests, newest window first.
func (s *ContestService) GetContestsEndpoint(c *fiber.Ctx) error {
	var contests []models.Contest
	if err := s.DB.Order("start_date DESC").Find(&contests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list contests"})
	}
	return c.JSON(contests)
}
