// Package services defines the business logic for accounts, questions,
// answers, comments, tags, votes, and search. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrDuplicateUser is returned when the requested username or email is
	// already registered.
	ErrDuplicateUser = errors.New("username or email already taken")

	// ErrInvalidCredentials is returned when login fails. It deliberately does
	// not distinguish unknown users from wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Content-related errors.
var (
	// ErrQuestionNotFound indicates that the requested question does not exist.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrAnswerNotFound indicates that the requested answer does not exist.
	ErrAnswerNotFound = errors.New("answer not found")

	// ErrCommentNotFound indicates that the requested comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrTagNotFound indicates that the requested tag does not exist.
	ErrTagNotFound = errors.New("tag not found")

	// ErrEmptyTitle is returned when a question is submitted without a title.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrEmptyBody is returned when a question, answer, or comment is
	// submitted without body text.
	ErrEmptyBody = errors.New("body is empty")

	// ErrTooLong is returned when submitted content exceeds the configured
	// length limits.
	ErrTooLong = errors.New("content too long")

	// ErrForbidden is returned when the requester is not permitted to modify
	// the resource (not the owner).
	ErrForbidden = errors.New("not allowed to modify this resource")
)

// Vote-related errors.
var (
	// ErrInvalidVote is returned when a vote value is outside the allowed set
	// (-1 or 1). A zero value is a client bug: removing a vote is done by
	// re-sending the current value, never by sending 0.
	ErrInvalidVote = errors.New("vote value must be -1 or 1")

	// ErrVoteConflict is returned when two concurrent casts on the same
	// (user, target) pair race and one loses at the unique index. The losing
	// request saw stale ledger state; retrying re-reads and converges.
	ErrVoteConflict = errors.New("concurrent vote detected, retry")
)
