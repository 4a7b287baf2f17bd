package models

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork          = errors.New("network error, retry later")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrVoteNotFound     = errors.New("vote is not found")
	ErrVoteExpired      = errors.New("vote is expired")
	ErrAlreadyVoted     = errors.New("you have already voted in this session")
	ErrNothingSelected  = errors.New("no option selected")
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrNotLoggedIn      = errors.New("login required")
)

// APIError is an application-level failure: the server answered with an
// envelope whose code is not 200. Message is shown to the user verbatim.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with code %d", e.Code)
}

type VoteOption struct {
	ID      int    `json:"id"`
	VoteID  int    `json:"vote_id"`
	Content string `json:"content"`
	Count   int    `json:"count"`
}

type UserVote struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	VoteID    int    `json:"vote_id"`
	OptionID  int    `json:"option_id"`
	CreatedAt string `json:"created_at"`
}

type Vote struct {
	ID        int          `json:"id"`
	Title     string       `json:"title"`
	Multi     bool         `json:"multi"`
	Deadline  int64        `json:"deadline"`
	CreatorID int          `json:"creator_id"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
	Options   []VoteOption `json:"options"`
	UserVotes []UserVote   `json:"user_votes,omitempty"`
}

type CreateVoteRequest struct {
	Title    string   `json:"title"`
	Options  []string `json:"options"`
	Multi    bool     `json:"multi"`
	Deadline int64    `json:"deadline"`
}

type UpdateVoteRequest struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Options  []string `json:"options"`
	Multi    bool     `json:"multi"`
	Deadline int64    `json:"deadline"`
}

type VoteRequest struct {
	VoteID    int   `json:"vote_id"`
	OptionIDs []int `json:"option_ids"`
}
