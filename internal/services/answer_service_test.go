package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dstamatis/go-forum-backend/internal/domain"
	"github.com/dstamatis/go-forum-backend/internal/repo"
)

func TestAnswer_Create(t *testing.T) {
	db := newTestDB(t)
	svc := &AnswerService{DB: db, MaxBodyRunes: 30}
	ctx := context.Background()

	author := seedUser(t, db, "author")
	replier := seedUser(t, db, "replier")
	q := seedQuestion(t, db, "q1", author.ID)

	if _, err := svc.Create(ctx, replier.ID, q.ID, "   "); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("blank body: expected ErrEmptyBody, got %v", err)
	}
	if _, err := svc.Create(ctx, replier.ID, q.ID, strings.Repeat("x", 31)); !errors.Is(err, ErrTooLong) {
		t.Fatalf("long body: expected ErrTooLong, got %v", err)
	}
	if _, err := svc.Create(ctx, replier.ID, "missing", "an answer"); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("missing question: expected ErrQuestionNotFound, got %v", err)
	}

	a, err := svc.Create(ctx, replier.ID, q.ID, "  use channels  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Body != "use channels" || a.QuestionID != q.ID || a.UserID != replier.ID || a.Accepted {
		t.Fatalf("created answer unexpected: %+v", a)
	}
}

func TestAnswer_Get_HydratesView(t *testing.T) {
	db := newTestDB(t)
	svc := &AnswerService{DB: db}
	votes := &VoteService{DB: db}
	ctx := context.Background()

	author := seedUser(t, db, "author")
	voter := seedUser(t, db, "voter")
	q := seedQuestion(t, db, "q1", author.ID)
	a := seedAnswer(t, db, "ans1", q.ID, author.ID)

	if _, err := votes.CastAnswerVote(ctx, voter.ID, a.ID, -1); err != nil {
		t.Fatalf("cast: %v", err)
	}

	view, err := svc.Get(ctx, a.ID, voter.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.ID != a.ID || view.Body != "answer" {
		t.Fatalf("answer not hydrated: %+v", view)
	}
	if view.Score != -1 || view.MyVote != -1 {
		t.Fatalf("score/my_vote = %d/%d, want -1/-1", view.Score, view.MyVote)
	}
	if view.Author == nil || view.Author.ID != author.ID {
		t.Fatalf("author not preloaded: %+v", view.Author)
	}

	// Anonymous and non-voting readers see the score but no own vote.
	anon, err := svc.Get(ctx, a.ID, "")
	if err != nil || anon.Score != -1 || anon.MyVote != 0 {
		t.Fatalf("anonymous view unexpected: %+v err=%v", anon, err)
	}
	bystander, err := svc.Get(ctx, a.ID, author.ID)
	if err != nil || bystander.MyVote != 0 {
		t.Fatalf("non-voter view unexpected: %+v err=%v", bystander, err)
	}

	if _, err := svc.Get(ctx, "missing", voter.ID); !errors.Is(err, ErrAnswerNotFound) {
		t.Fatalf("expected ErrAnswerNotFound, got %v", err)
	}
}

func TestAnswer_Update_Ownership(t *testing.T) {
	db := newTestDB(t)
	svc := &AnswerService{DB: db}
	ctx := context.Background()

	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")
	q := seedQuestion(t, db, "q1", author.ID)
	a := seedAnswer(t, db, "ans1", q.ID, author.ID)

	if err := svc.Update(ctx, other.ID, a.ID, "edited"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner edit: expected ErrForbidden, got %v", err)
	}
	if err := svc.Update(ctx, author.ID, "missing", "edited"); !errors.Is(err, ErrAnswerNotFound) {
		t.Fatalf("missing answer: expected ErrAnswerNotFound, got %v", err)
	}
	if err := svc.Update(ctx, author.ID, a.ID, "  edited  "); err != nil {
		t.Fatalf("owner edit: %v", err)
	}
	got, err := repo.GetAnswer(ctx, db, a.ID)
	if err != nil || got.Body != "edited" {
		t.Fatalf("edit not applied: %+v err=%v", got, err)
	}
}

func TestAnswer_Delete(t *testing.T) {
	db := newTestDB(t)
	svc := &AnswerService{DB: db}
	ctx := context.Background()

	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")
	q := seedQuestion(t, db, "q1", author.ID)
	a := seedAnswer(t, db, "ans1", q.ID, author.ID)

	if err := svc.Delete(ctx, other.ID, a.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, author.ID, a.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := svc.Delete(ctx, author.ID, a.ID); !errors.Is(err, ErrAnswerNotFound) {
		t.Fatalf("double delete: expected ErrAnswerNotFound, got %v", err)
	}
}

func TestAnswer_Accept_SingleWinner(t *testing.T) {
	db := newTestDB(t)
	svc := &AnswerService{DB: db}
	ctx := context.Background()

	asker := seedUser(t, db, "asker")
	replier := seedUser(t, db, "replier")
	q := seedQuestion(t, db, "q1", asker.ID)
	a1 := seedAnswer(t, db, "ans1", q.ID, replier.ID)
	a2 := seedAnswer(t, db, "ans2", q.ID, replier.ID)

	// Only the question author may accept; the answer author may not.
	if err := svc.Accept(ctx, replier.ID, a1.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("answer author accept: expected ErrForbidden, got %v", err)
	}
	if err := svc.Accept(ctx, asker.ID, "missing"); !errors.Is(err, ErrAnswerNotFound) {
		t.Fatalf("missing answer: expected ErrAnswerNotFound, got %v", err)
	}

	if err := svc.Accept(ctx, asker.ID, a1.ID); err != nil {
		t.Fatalf("accept a1: %v", err)
	}
	// Moving the acceptance clears the previous winner.
	if err := svc.Accept(ctx, asker.ID, a2.ID); err != nil {
		t.Fatalf("accept a2: %v", err)
	}

	var accepted []domain.Answer
	if err := db.Where("question_id = ? AND accepted = ?", q.ID, true).Find(&accepted).Error; err != nil {
		t.Fatalf("query accepted: %v", err)
	}
	if len(accepted) != 1 || accepted[0].ID != a2.ID {
		t.Fatalf("expected only a2 accepted, got %+v", accepted)
	}

	// Accepted answers sort first in the question's answer list.
	answers, err := repo.ListAnswers(ctx, db, q.ID)
	if err != nil || len(answers) != 2 || answers[0].ID != a2.ID {
		t.Fatalf("accepted-first ordering violated: %+v err=%v", answers, err)
	}
}
