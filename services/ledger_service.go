package services

import (
	"errors"
	"fmt"

	"photo-contest-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns all coin balance mutations. Debits run against an
// exclusively locked user row so a concurrent debit can never observe a stale
// balance; the never-negative invariant is re-checked inside the lock.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// forUpdate applies a row-level exclusive lock. SQLite (tests) takes a
// database-level write lock on its own; FOR UPDATE is not valid syntax there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Debit subtracts amount from the user's balance, failing with
// ErrInsufficientFunds when the locked balance is short. Pass the enclosing
// transaction handle to join a larger atomic unit; pass nil to run standalone.
func (s *LedgerService) Debit(tx *gorm.DB, userID string, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	run := func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to lock balance row: %w", err)
		}
		if user.Coins < amount {
			return ErrInsufficientFunds
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("coins", gorm.Expr("coins - ?", amount)).Error
	}
	if tx != nil {
		return run(tx)
	}
	return s.DB.Transaction(run)
}

// Credit adds amount to the user's balance.
func (s *LedgerService) Credit(tx *gorm.DB, userID string, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	run := func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to lock balance row: %w", err)
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("coins", gorm.Expr("coins + ?", amount)).Error
	}
	if tx != nil {
		return run(tx)
	}
	return s.DB.Transaction(run)
}

// GetBalance returns the user's current coin balance.
func (s *LedgerService) GetBalance(userID string) (int64, error) {
	var user models.User
	if err := s.DB.Select("coins").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.Coins, nil
}

// GetBalanceEndpoint exposes the balance for the authenticated user.
func (s *LedgerService) GetBalanceEndpoint(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	balance, err := s.GetBalance(userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"user_id": userID, "coins": balance})
}
