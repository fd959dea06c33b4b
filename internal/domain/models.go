// Package domain defines the persistence models for users, questions,
// answers, comments, tags, and votes. These types are mapped with GORM and
// form the core data layer of the forum application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Vote target type discriminators used in API payloads and metrics labels.
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
)

// User represents a registered account. Passwords are stored as bcrypt
// hashes only; the hash is never serialized to JSON.
type User struct {
	ID           string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Username     string         `json:"username"   gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	Email        string         `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string         `json:"-"          gorm:"type:varchar(255);not null"`
	About        string         `json:"about"      gorm:"type:text"`
	AvatarURL    string         `json:"avatar_url" gorm:"type:varchar(512)"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Question represents a posted question. Answers, comments, and votes
// referencing a question are cascade-deleted with it.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the author; indexed for profile listings.
//   - Title / Body: question content.
//   - Tags: many-to-many association via the question_tags join table.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Question struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:char(36);not null;index:idx_user_questions"`
	Title     string         `json:"title"      gorm:"type:varchar(255);not null"`
	Body      string         `json:"body"       gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Tags   []Tag `json:"tags,omitempty"   gorm:"many2many:question_tags"`
}

// TableName returns the database table name for Question.
func (Question) TableName() string { return "questions" }

// Answer represents a reply to a question. Comments and votes referencing an
// answer are cascade-deleted with it.
type Answer struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	QuestionID string         `json:"question_id" gorm:"type:char(36);not null;index:idx_question_answers"`
	UserID     string         `json:"user_id"     gorm:"type:char(36);not null;index"`
	Body       string         `json:"body"        gorm:"type:text;not null"`
	Accepted   bool           `json:"accepted"    gorm:"not null;default:false"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`

	// Question is the parent. Answers are cascade-deleted when it is removed.
	Question *Question `json:"-" gorm:"foreignKey:QuestionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Author   *User     `json:"author,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the database table name for Answer.
func (Answer) TableName() string { return "answers" }

// Comment is a short remark attached to exactly one question or answer.
// Comments cannot receive votes.
type Comment struct {
	ID         string         `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID     string         `json:"user_id" gorm:"type:char(36);not null;index"`
	QuestionID *string        `json:"question_id,omitempty" gorm:"type:char(36);index"`
	AnswerID   *string        `json:"answer_id,omitempty"   gorm:"type:char(36);index"`
	Body       string         `json:"body"    gorm:"type:text;not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"       gorm:"index"`

	Question *Question `json:"-" gorm:"foreignKey:QuestionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Answer   *Answer   `json:"-" gorm:"foreignKey:AnswerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// Tag labels questions. Name is the canonical lowercase identifier used in
// URLs and search filters; DisplayName is the human-readable form.
type Tag struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name"         gorm:"type:varchar(64);not null;uniqueIndex:ux_tags_name"`
	DisplayName string         `json:"display_name" gorm:"type:varchar(64);not null"`
	Description string         `json:"description"  gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string { return "tags" }

// Vote is one row of the vote ledger: a single user's vote on a single
// target. Exactly one of QuestionID/AnswerID is non-null per row, and a user
// holds at most one vote per target.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: the casting user; immutable after creation.
//   - QuestionID / AnswerID: nullable FKs; exactly one set. The composite
//     unique indexes (user_id, question_id) and (user_id, answer_id) enforce
//     one-vote-per-target at the database level. Rows for the other target
//     type carry NULL in the indexed column and never collide.
//   - Value: +1 (upvote) or -1 (downvote), enforced by a check constraint.
//     A value of 0 is never stored; "remove my vote" deletes the row.
//   - CreatedAt / UpdatedAt: audit timestamps, not used in scoring.
//   - DeletedAt: present for schema uniformity; un-voting removes the row
//     outright so the unique indexes stay authoritative.
type Vote struct {
	ID         string         `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID     string         `json:"user_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_votes_user_question,priority:1;uniqueIndex:ux_votes_user_answer,priority:1"`
	QuestionID *string        `json:"question_id,omitempty" gorm:"type:char(36);index;uniqueIndex:ux_votes_user_question,priority:2"`
	AnswerID   *string        `json:"answer_id,omitempty"   gorm:"type:char(36);index;uniqueIndex:ux_votes_user_answer,priority:2"`
	Value      int            `json:"value"   gorm:"not null;check:value IN (-1,1)"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"       gorm:"index"`

	// Votes are cascade-deleted when their target is removed.
	Question *Question `json:"-" gorm:"foreignKey:QuestionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Answer   *Answer   `json:"-" gorm:"foreignKey:AnswerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Vote.
func (Vote) TableName() string { return "votes" }

// TargetID returns the identifier of whichever target this vote references.
func (v *Vote) TargetID() string {
	if v.QuestionID != nil {
		return *v.QuestionID
	}
	if v.AnswerID != nil {
		return *v.AnswerID
	}
	return ""
}
