package services

import (
	"errors"
	"testing"
	"time"

	"photo-contest-system/models"

	"github.com/google/uuid"
)

func TestRankOrdersByVotes(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	contest := seedContest(t, db, 0, 50, 10)
	now := time.Now()

	a := seedUser(t, db, "owner-a", 0)
	b := seedUser(t, db, "owner-b", 0)
	c := seedUser(t, db, "owner-c", 0)
	photoA := seedEntry(t, db, a.ID, contest.ID, models.SubmissionApproved, now)
	photoB := seedEntry(t, db, b.ID, contest.ID, models.SubmissionApproved, now.Add(time.Minute))
	photoC := seedEntry(t, db, c.ID, contest.ID, models.SubmissionApproved, now.Add(2*time.Minute))

	seedVotes(t, db, 3, photoA.ID, contest.ID)
	seedVotes(t, db, 5, photoB.ID, contest.ID)

	rows, err := svc.Rank(contest.ID)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("unexpected row count: got=%d want=3", len(rows))
	}

	want := []struct {
		photoID string
		votes   int64
		rank    int
	}{
		{photoB.ID, 5, 1},
		{photoA.ID, 3, 2},
		{photoC.ID, 0, 3},
	}
	for i, w := range want {
		if rows[i].PhotoID != w.photoID {
			t.Fatalf("row %d: unexpected photo: got=%q want=%q", i, rows[i].PhotoID, w.photoID)
		}
		if rows[i].VoteCount != w.votes {
			t.Fatalf("row %d: unexpected votes: got=%d want=%d", i, rows[i].VoteCount, w.votes)
		}
		if rows[i].Rank != w.rank {
			t.Fatalf("row %d: unexpected rank: got=%d want=%d", i, rows[i].Rank, w.rank)
		}
	}
}

func TestRankCompetitionTies(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	contest := seedContest(t, db, 0, 50, 10)
	now := time.Now()

	a := seedUser(t, db, "tied-a", 0)
	b := seedUser(t, db, "tied-b", 0)
	c := seedUser(t, db, "third-c", 0)
	photoA := seedEntry(t, db, a.ID, contest.ID, models.SubmissionApproved, now)
	photoB := seedEntry(t, db, b.ID, contest.ID, models.SubmissionApproved, now.Add(time.Minute))
	photoC := seedEntry(t, db, c.ID, contest.ID, models.SubmissionApproved, now.Add(2*time.Minute))

	seedVotes(t, db, 5, photoA.ID, contest.ID)
	seedVotes(t, db, 5, photoB.ID, contest.ID)
	seedVotes(t, db, 2, photoC.ID, contest.ID)

	rows, err := svc.Rank(contest.ID)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("unexpected row count: got=%d want=3", len(rows))
	}

	// Tied photos share rank 1; the next distinct count takes rank 3.
	if rows[0].Rank != 1 || rows[1].Rank != 1 || rows[2].Rank != 3 {
		t.Fatalf("unexpected ranks: got=[%d %d %d] want=[1 1 3]",
			rows[0].Rank, rows[1].Rank, rows[2].Rank)
	}
	// Earlier submission sorts first within the tie.
	if rows[0].PhotoID != photoA.ID || rows[1].PhotoID != photoB.ID {
		t.Fatalf("unexpected tie order: got=[%q %q] want=[%q %q]",
			rows[0].PhotoID, rows[1].PhotoID, photoA.ID, photoB.ID)
	}
	if rows[2].VoteCount != 2 {
		t.Fatalf("unexpected third votes: got=%d want=2", rows[2].VoteCount)
	}
}

func TestRankExcludesUnapproved(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	contest := seedContest(t, db, 0, 50, 10)
	now := time.Now()

	approved := seedUser(t, db, "approved", 0)
	pending := seedUser(t, db, "pending", 0)
	rejected := seedUser(t, db, "rejected", 0)
	photoOK := seedEntry(t, db, approved.ID, contest.ID, models.SubmissionApproved, now)
	seedEntry(t, db, pending.ID, contest.ID, models.SubmissionPending, now)
	seedEntry(t, db, rejected.ID, contest.ID, models.SubmissionRejected, now)

	rows, err := svc.Rank(contest.ID)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("unexpected row count: got=%d want=1", len(rows))
	}
	if rows[0].PhotoID != photoOK.ID {
		t.Fatalf("unexpected photo: got=%q want=%q", rows[0].PhotoID, photoOK.ID)
	}
}

func TestRankScopesVotesToContest(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	contestA := seedContest(t, db, 0, 50, 10)
	contestB := seedContest(t, db, 0, 50, 10)
	now := time.Now()

	owner := seedUser(t, db, "owner", 0)
	photo := seedEntry(t, db, owner.ID, contestA.ID, models.SubmissionApproved, now)
	// Same photo entered in a second contest; votes there must not leak.
	sub := models.Submission{
		ID:        uuid.NewString(),
		PhotoID:   photo.ID,
		ContestID: contestB.ID,
		Status:    models.SubmissionApproved,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("failed to seed cross-contest submission: %v", err)
	}
	seedVotes(t, db, 2, photo.ID, contestA.ID)
	seedVotes(t, db, 4, photo.ID, contestB.ID)

	rows, err := svc.Rank(contestA.ID)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("unexpected row count: got=%d want=1", len(rows))
	}
	if rows[0].VoteCount != 2 {
		t.Fatalf("vote count leaked across contests: got=%d want=2", rows[0].VoteCount)
	}
}

func TestRankUnknownContest(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	if _, err := svc.Rank(uuid.NewString()); !errors.Is(err, ErrContestNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
}
