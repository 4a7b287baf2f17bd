package service

import (
	"context"
	"fmt"
	"time"

	"github.com/loboot/vote-system/internal/models"
	"go.uber.org/zap"
)

// VoteAPI is the slice of the repository a ballot session needs.
type VoteAPI interface {
	GetVote(ctx context.Context, id int) (*models.Vote, error)
	SubmitVote(ctx context.Context, req models.VoteRequest) error
}

// BallotSession orchestrates one poll-viewing session: it owns the selection,
// re-checks expiry on every interaction, issues the submit call and re-fetches
// the poll afterwards so the displayed counts are server-authoritative.
type BallotSession struct {
	api  VoteAPI
	l    *zap.Logger
	now  func() int64
	vote *models.Vote
	sel  *Selection
}

func NewBallotSession(ctx context.Context, api VoteAPI, id int, l *zap.Logger) (*BallotSession, error) {
	vote, err := api.GetVote(ctx, id)
	if err != nil {
		return nil, err
	}
	b := &BallotSession{
		api:  api,
		l:    l,
		now:  func() int64 { return time.Now().Unix() },
		vote: vote,
		sel:  NewSelection(vote.Multi),
	}
	if Expired(vote.Deadline, b.now()) {
		b.sel.markExpired()
	}
	return b, nil
}

func (b *BallotSession) Vote() *models.Vote {
	return b.vote
}

func (b *BallotSession) State() State {
	return b.sel.State()
}

func (b *BallotSession) Selected(id int) bool {
	return b.sel.Selected(id)
}

func (b *BallotSession) OptionIDs() []int {
	return b.sel.OptionIDs()
}

// Toggle flips one option, unless the deadline passed while the view was
// open.
func (b *BallotSession) Toggle(id int) error {
	if b.checkExpired() {
		return models.ErrVoteExpired
	}
	if !b.hasOption(id) {
		return fmt.Errorf("option %d: %w", id, models.ErrVoteNotFound)
	}
	return b.sel.Toggle(id)
}

// Submit casts the current selection. An empty selection returns
// ErrNothingSelected without any network call. On success the poll is
// re-fetched; if that refresh fails the session is still Submitted and the
// error reports only the stale display.
func (b *BallotSession) Submit(ctx context.Context) error {
	if b.checkExpired() {
		return models.ErrVoteExpired
	}
	if err := b.sel.beginSubmit(); err != nil {
		return err
	}

	req := models.VoteRequest{VoteID: b.vote.ID, OptionIDs: b.sel.OptionIDs()}
	if err := b.api.SubmitVote(ctx, req); err != nil {
		b.sel.finishSubmit(false)
		b.l.Warn("vote submit failed",
			zap.Int("vote_id", b.vote.ID),
			zap.Error(err))
		return err
	}
	b.sel.finishSubmit(true)

	if err := b.Refresh(ctx); err != nil {
		b.l.Warn("refresh after submit failed", zap.Int("vote_id", b.vote.ID), zap.Error(err))
		return fmt.Errorf("vote recorded, but refreshing tallies failed: %w", err)
	}
	return nil
}

// Refresh re-fetches the poll record. Counts are never touched locally.
func (b *BallotSession) Refresh(ctx context.Context) error {
	vote, err := b.api.GetVote(ctx, b.vote.ID)
	if err != nil {
		return err
	}
	b.vote = vote
	b.checkExpired()
	return nil
}

func (b *BallotSession) checkExpired() bool {
	if b.sel.State() == StateExpired {
		return true
	}
	if Expired(b.vote.Deadline, b.now()) {
		b.sel.markExpired()
		return true
	}
	return false
}

func (b *BallotSession) hasOption(id int) bool {
	for _, option := range b.vote.Options {
		if option.ID == id {
			return true
		}
	}
	return false
}
