package services

import (
	"errors"
	"testing"

	"photo-contest-system/models"

	"gorm.io/gorm"
)

var errAbort = errors.New("abort")

func TestDebitAndCredit(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	user := seedUser(t, db, "alice", 10)

	if err := ledger.Debit(nil, user.ID, 4); err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if got := balanceOf(t, db, user.ID); got != 6 {
		t.Fatalf("unexpected balance after debit: got=%d want=6", got)
	}

	if err := ledger.Credit(nil, user.ID, 3); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if got := balanceOf(t, db, user.ID); got != 9 {
		t.Fatalf("unexpected balance after credit: got=%d want=9", got)
	}
}

func TestDebitInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	user := seedUser(t, db, "bob", 10)

	err := ledger.Debit(nil, user.ID, 11)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := balanceOf(t, db, user.ID); got != 10 {
		t.Fatalf("balance changed on failed debit: got=%d want=10", got)
	}
}

func TestDebitDrainsToZeroThenFails(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	user := seedUser(t, db, "carol", 10)

	if err := ledger.Debit(nil, user.ID, 10); err != nil {
		t.Fatalf("first Debit failed: %v", err)
	}
	if err := ledger.Debit(nil, user.ID, 10); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("unexpected error on second debit: %v", err)
	}
	if got := balanceOf(t, db, user.ID); got != 0 {
		t.Fatalf("balance went negative: got=%d want=0", got)
	}
}

func TestDebitZeroAmount(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	user := seedUser(t, db, "dora", 0)

	if err := ledger.Debit(nil, user.ID, 0); err != nil {
		t.Fatalf("zero debit should succeed on empty balance: %v", err)
	}
	if got := balanceOf(t, db, user.ID); got != 0 {
		t.Fatalf("unexpected balance: got=%d want=0", got)
	}
}

// A created zero balance must be stored as zero, not replaced by a column
// default; every coin a user holds comes from an explicit write.
func TestZeroBalancePersistsOnCreate(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "broke", 0)

	if got := balanceOf(t, db, user.ID); got != 0 {
		t.Fatalf("unexpected balance for new zero-coin user: got=%d want=0", got)
	}
}

func TestNegativeAmountsRejected(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	user := seedUser(t, db, "eve", 10)

	if err := ledger.Debit(nil, user.ID, -1); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("unexpected debit error: %v", err)
	}
	if err := ledger.Credit(nil, user.ID, -1); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("unexpected credit error: %v", err)
	}
	if got := balanceOf(t, db, user.ID); got != 10 {
		t.Fatalf("balance changed: got=%d want=10", got)
	}
}

func TestLedgerUnknownUser(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)

	if err := ledger.Debit(nil, "missing", 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unexpected debit error: %v", err)
	}
	if err := ledger.Credit(nil, "missing", 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unexpected credit error: %v", err)
	}
	if _, err := ledger.GetBalance("missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unexpected GetBalance error: %v", err)
	}
}

func TestDebitJoinsCallerTransaction(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	user := seedUser(t, db, "frank", 10)

	// A failure after the debit must roll the debit back with the rest.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ledger.Debit(tx, user.ID, 5); err != nil {
			t.Fatalf("Debit inside tx failed: %v", err)
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("unexpected transaction error: %v", err)
	}
	if got := balanceOf(t, db, user.ID); got != 10 {
		t.Fatalf("debit survived rollback: got=%d want=10", got)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("unexpected user count: got=%d want=1", count)
	}
}
