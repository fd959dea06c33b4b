package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dstamatis/go-forum-backend/internal/domain"
)

func TestAnswerRepo_CreateGetExists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "u1")
	q := seedQuestion(t, db, "q1", u.ID)

	a, err := CreateAnswer(ctx, db, q.ID, u.ID, "use channels")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" || a.QuestionID != q.ID || a.UserID != u.ID || a.Accepted {
		t.Fatalf("created answer unexpected: %+v", a)
	}

	got, err := GetAnswer(ctx, db, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Body != "use channels" || got.Author == nil || got.Author.ID != u.ID {
		t.Fatalf("author not preloaded: %+v", got)
	}

	ok, err := AnswerExists(ctx, db, a.ID)
	if err != nil || !ok {
		t.Fatalf("exists: ok=%v err=%v", ok, err)
	}
	ok, err = AnswerExists(ctx, db, "missing")
	if err != nil || ok {
		t.Fatalf("missing exists: ok=%v err=%v", ok, err)
	}
	if _, err := GetAnswer(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnswerRepo_ListAnswers_AcceptedFirstThenOldest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "u1")
	q := seedQuestion(t, db, "q1", u.ID)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"a1", "a2", "a3"} {
		a := &domain.Answer{ID: id, QuestionID: q.ID, UserID: u.ID, Body: "b",
			CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := db.Create(a).Error; err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	// Unaccepted: oldest first.
	answers, err := ListAnswers(ctx, db, q.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(answers) != 3 || answers[0].ID != "a1" || answers[2].ID != "a3" {
		t.Fatalf("oldest-first ordering unexpected: %+v", answers)
	}

	// The accepted answer jumps to the front regardless of age.
	if err := SetAccepted(ctx, db, q.ID, "a3"); err != nil {
		t.Fatalf("accept a3: %v", err)
	}
	answers, err = ListAnswers(ctx, db, q.ID)
	if err != nil || answers[0].ID != "a3" || answers[1].ID != "a1" {
		t.Fatalf("accepted-first ordering unexpected: %+v err=%v", answers, err)
	}
}

func TestAnswerRepo_UpdateDelete_OwnerScoped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	q := seedQuestion(t, db, "q1", owner.ID)
	a := seedAnswer(t, db, "ans1", q.ID, owner.ID)

	if err := UpdateAnswerBody(ctx, db, a.ID, "someone-else", "edited"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign update: expected ErrNotFound, got %v", err)
	}
	if err := UpdateAnswerBody(ctx, db, a.ID, owner.ID, "edited"); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	got, _ := GetAnswer(ctx, db, a.ID)
	if got.Body != "edited" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := DeleteAnswer(ctx, db, a.ID, "someone-else"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: expected ErrNotFound, got %v", err)
	}
	if err := DeleteAnswer(ctx, db, a.ID, owner.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := GetAnswer(ctx, db, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted answer still visible: %v", err)
	}
}

func TestAnswerRepo_SetAccepted_SingleWinner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "u1")
	q := seedQuestion(t, db, "q1", u.ID)
	a1 := seedAnswer(t, db, "ans1", q.ID, u.ID)
	a2 := seedAnswer(t, db, "ans2", q.ID, u.ID)

	if err := SetAccepted(ctx, db, q.ID, a1.ID); err != nil {
		t.Fatalf("accept a1: %v", err)
	}
	// Moving the acceptance clears the previous winner.
	if err := SetAccepted(ctx, db, q.ID, a2.ID); err != nil {
		t.Fatalf("accept a2: %v", err)
	}
	var accepted []domain.Answer
	if err := db.Where("question_id = ? AND accepted = ?", q.ID, true).Find(&accepted).Error; err != nil {
		t.Fatalf("query accepted: %v", err)
	}
	if len(accepted) != 1 || accepted[0].ID != a2.ID {
		t.Fatalf("expected only a2 accepted, got %+v", accepted)
	}

	// An answer under a different question cannot be accepted here.
	other := seedQuestion(t, db, "q2", u.ID)
	if err := SetAccepted(ctx, db, other.ID, a1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-question accept: expected ErrNotFound, got %v", err)
	}
}
