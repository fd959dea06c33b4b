package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dstamatis/go-forum-backend/internal/domain"
	"github.com/dstamatis/go-forum-backend/internal/http/middleware"
	"github.com/dstamatis/go-forum-backend/internal/repo"
	"github.com/dstamatis/go-forum-backend/internal/search"
	"github.com/dstamatis/go-forum-backend/internal/services"
)

// testUUID is a syntactically valid UUID for path parameters.
const testUUID = "b3b26eaf-1e5c-4f6a-9d2e-8f6a2cbe0a11"

//
// Stub services. Each method delegates to an optional function field so a
// test overrides only what it needs; unset methods fail loudly.
//

type stubAuth struct {
	register      func(ctx context.Context, username, email, password string) (*domain.User, error)
	login         func(ctx context.Context, username, password string) (string, *domain.User, error)
	getUser       func(ctx context.Context, id string) (*domain.User, error)
	updateProfile func(ctx context.Context, userID, about, avatarURL string) error
}

func (s *stubAuth) Register(ctx context.Context, u, e, p string) (*domain.User, error) {
	return s.register(ctx, u, e, p)
}
func (s *stubAuth) Login(ctx context.Context, u, p string) (string, *domain.User, error) {
	return s.login(ctx, u, p)
}
func (s *stubAuth) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, id)
}
func (s *stubAuth) UpdateProfile(ctx context.Context, uid, about, avatar string) error {
	return s.updateProfile(ctx, uid, about, avatar)
}

type stubQuestions struct {
	create   func(ctx context.Context, userID, title, body string, tags []string) (*domain.Question, error)
	get      func(ctx context.Context, id, requesterID string) (*services.QuestionDetail, error)
	listPage func(ctx context.Context, tag, order string, page, pageSize int) ([]repo.QuestionWithScore, int64, error)
	update   func(ctx context.Context, userID, id, title, body string, tags []string) error
	delete   func(ctx context.Context, userID, id string) error
}

func (s *stubQuestions) Create(ctx context.Context, uid, title, body string, tags []string) (*domain.Question, error) {
	return s.create(ctx, uid, title, body, tags)
}
func (s *stubQuestions) Get(ctx context.Context, id, rid string) (*services.QuestionDetail, error) {
	return s.get(ctx, id, rid)
}
func (s *stubQuestions) ListPage(ctx context.Context, tag, order string, page, pageSize int) ([]repo.QuestionWithScore, int64, error) {
	return s.listPage(ctx, tag, order, page, pageSize)
}
func (s *stubQuestions) Update(ctx context.Context, uid, id, title, body string, tags []string) error {
	return s.update(ctx, uid, id, title, body, tags)
}
func (s *stubQuestions) Delete(ctx context.Context, uid, id string) error {
	return s.delete(ctx, uid, id)
}

type stubAnswers struct {
	create func(ctx context.Context, userID, questionID, body string) (*domain.Answer, error)
	get    func(ctx context.Context, answerID, requesterID string) (*services.AnswerView, error)
	update func(ctx context.Context, userID, answerID, body string) error
	delete func(ctx context.Context, userID, answerID string) error
	accept func(ctx context.Context, userID, answerID string) error
}

func (s *stubAnswers) Create(ctx context.Context, uid, qid, body string) (*domain.Answer, error) {
	return s.create(ctx, uid, qid, body)
}
func (s *stubAnswers) Get(ctx context.Context, aid, rid string) (*services.AnswerView, error) {
	return s.get(ctx, aid, rid)
}
func (s *stubAnswers) Update(ctx context.Context, uid, aid, body string) error {
	return s.update(ctx, uid, aid, body)
}
func (s *stubAnswers) Delete(ctx context.Context, uid, aid string) error { return s.delete(ctx, uid, aid) }
func (s *stubAnswers) Accept(ctx context.Context, uid, aid string) error { return s.accept(ctx, uid, aid) }

type stubComments struct {
	onQuestion func(ctx context.Context, userID, questionID, body string) (*domain.Comment, error)
	onAnswer   func(ctx context.Context, userID, answerID, body string) (*domain.Comment, error)
	list       func(ctx context.Context, answerID string) ([]domain.Comment, error)
	delete     func(ctx context.Context, userID, commentID string) error
}

func (s *stubComments) CreateOnQuestion(ctx context.Context, uid, qid, body string) (*domain.Comment, error) {
	return s.onQuestion(ctx, uid, qid, body)
}
func (s *stubComments) CreateOnAnswer(ctx context.Context, uid, aid, body string) (*domain.Comment, error) {
	return s.onAnswer(ctx, uid, aid, body)
}
func (s *stubComments) ListForAnswer(ctx context.Context, aid string) ([]domain.Comment, error) {
	return s.list(ctx, aid)
}
func (s *stubComments) Delete(ctx context.Context, uid, cid string) error {
	return s.delete(ctx, uid, cid)
}

type stubTags struct {
	list func(ctx context.Context) ([]domain.Tag, error)
	get  func(ctx context.Context, name string) (*domain.Tag, error)
}

func (s *stubTags) List(ctx context.Context) ([]domain.Tag, error)         { return s.list(ctx) }
func (s *stubTags) Get(ctx context.Context, n string) (*domain.Tag, error) { return s.get(ctx, n) }

type stubVotes struct {
	castQuestion func(ctx context.Context, userID, questionID string, value int) (*services.VoteResult, error)
	castAnswer   func(ctx context.Context, userID, answerID string, value int) (*services.VoteResult, error)
	myVotes      func(ctx context.Context, userID string) (*services.VoteMap, error)
}

func (s *stubVotes) CastQuestionVote(ctx context.Context, uid, qid string, v int) (*services.VoteResult, error) {
	return s.castQuestion(ctx, uid, qid, v)
}
func (s *stubVotes) CastAnswerVote(ctx context.Context, uid, aid string, v int) (*services.VoteResult, error) {
	return s.castAnswer(ctx, uid, aid, v)
}
func (s *stubVotes) MyVotes(ctx context.Context, uid string) (*services.VoteMap, error) {
	return s.myVotes(ctx, uid)
}

type stubSearch struct {
	search func(ctx context.Context, query string, limit int) ([]search.Result, error)
}

func (s *stubSearch) Search(ctx context.Context, q string, limit int) ([]search.Result, error) {
	return s.search(ctx, q, limit)
}

// stubs bundles one of each stub with zero-value defaults.
type stubs struct {
	auth     *stubAuth
	question *stubQuestions
	answer   *stubAnswers
	comment  *stubComments
	tag      *stubTags
	vote     *stubVotes
	search   *stubSearch
}

func newStubs() *stubs {
	return &stubs{
		auth:     &stubAuth{},
		question: &stubQuestions{},
		answer:   &stubAnswers{},
		comment:  &stubComments{},
		tag:      &stubTags{},
		vote:     &stubVotes{},
		search:   &stubSearch{},
	}
}

// newTestRouter mounts the full handler set with the given stubs and an
// identity middleware injecting asUser (empty keeps the request anonymous).
func newTestRouter(s *stubs, asUser string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(s.auth, s.question, s.answer, s.comment, s.tag, s.vote, s.search)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if asUser != "" {
			c.Set(middleware.CtxKeyUserID, asUser)
		}
		c.Next()
	})

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/me", h.Me)
	r.PUT("/me", h.UpdateMe)
	r.GET("/users/:id", h.GetUser)

	r.POST("/questions", h.CreateQuestion)
	r.GET("/questions", h.ListQuestions)
	r.GET("/questions/:id", h.GetQuestion)
	r.PUT("/questions/:id", h.UpdateQuestion)
	r.DELETE("/questions/:id", h.DeleteQuestion)

	r.POST("/questions/:id/answers", h.CreateAnswer)
	r.PUT("/answers/:id", h.UpdateAnswer)
	r.DELETE("/answers/:id", h.DeleteAnswer)
	r.POST("/answers/:id/accept", h.AcceptAnswer)

	r.POST("/questions/:id/comments", h.CommentOnQuestion)
	r.POST("/answers/:id/comments", h.CommentOnAnswer)
	r.GET("/answers/:id/comments", h.ListAnswerComments)
	r.DELETE("/comments/:id", h.DeleteComment)

	r.GET("/tags", h.ListTags)
	r.GET("/tags/:name", h.GetTag)

	r.POST("/questions/:id/vote", h.VoteQuestion)
	r.POST("/answers/:id/vote", h.VoteAnswer)
	r.GET("/me/votes", h.MyVotes)

	r.GET("/search", h.SearchQuestions)
	return r
}

// doJSON performs a request with an optional JSON body and decodes nothing.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded JSON body into v.
func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// wantError asserts the standard error envelope.
func wantError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body=%s)", w.Code, status, w.Body.String())
	}
	var e ErrorResponse
	decode(t, w, &e)
	if e.Code != code {
		t.Fatalf("code = %q, want %q", e.Code, code)
	}
	if e.Message == "" {
		t.Fatalf("error message must not be empty")
	}
}

func TestClampPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, 20},
		{"page=3&page_size=50", 3, 50},
		{"page=0&page_size=0", 1, 1},
		{"page=-2&page_size=500", 1, 100},
		{"page=abc&page_size=xyz", 1, 20},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		page, pageSize := clampPagination(c)
		if page != tc.wantPage || pageSize != tc.wantPageSize {
			t.Fatalf("clampPagination(%q) = (%d, %d), want (%d, %d)",
				tc.query, page, pageSize, tc.wantPage, tc.wantPageSize)
		}
	}
}

func TestNewPagination(t *testing.T) {
	p := newPagination(2, 20, 45)
	if p.TotalPages != 3 || !p.HasNext || p.Total != 45 {
		t.Fatalf("pagination unexpected: %+v", p)
	}
	p = newPagination(3, 20, 45)
	if p.HasNext {
		t.Fatalf("last page must not have next: %+v", p)
	}
}
