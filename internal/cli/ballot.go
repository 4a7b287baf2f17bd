package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/loboot/vote-system/internal/models"
	"github.com/loboot/vote-system/internal/service"
)

// vote opens an interactive ballot session for one poll: option ids toggle
// the selection, "submit" casts it, "back" leaves. The session enforces the
// expiry and one-vote-per-session rules; a failed submit keeps the selection
// for retry.
func (h *Handler) vote(ctx context.Context, id int) {
	if !h.requireAuth() {
		return
	}
	ballot, err := service.NewBallotSession(ctx, h.repo, id, h.l)
	if err != nil {
		h.printErr(err)
		return
	}

	h.renderDetail(ballot.Vote(), ballot.Selected)
	if ballot.State() == service.StateExpired {
		fmt.Fprintln(h.out, "this poll has closed, voting is no longer possible")
		return
	}
	fmt.Fprintln(h.out, `toggle options by id; "submit" to cast, "back" to leave`)

	for {
		line, ok := h.readLine(ctx, "vote> ")
		if !ok {
			return
		}
		switch input := strings.TrimSpace(line); input {
		case "back", "quit":
			return
		case "submit":
			if done := h.submitBallot(ctx, ballot); done {
				return
			}
		case "":
		default:
			optionID, err := strconv.Atoi(input)
			if err != nil {
				fmt.Fprintln(h.out, `enter an option id, "submit" or "back"`)
				continue
			}
			if err = ballot.Toggle(optionID); err != nil {
				h.printBallotErr(err)
				continue
			}
			h.renderDetail(ballot.Vote(), ballot.Selected)
		}
	}
}

// submitBallot reports whether the session is finished.
func (h *Handler) submitBallot(ctx context.Context, ballot *service.BallotSession) bool {
	err := ballot.Submit(ctx)
	if err == nil {
		fmt.Fprintln(h.out, "vote recorded, thanks for participating")
		h.renderDetail(ballot.Vote(), nil)
		return true
	}
	if ballot.State() == service.StateSubmitted {
		// the vote went through, only the refresh failed
		fmt.Fprintln(h.out, "vote recorded, but tallies could not be refreshed")
		return true
	}
	h.printBallotErr(err)
	return errors.Is(err, models.ErrVoteExpired)
}

func (h *Handler) printBallotErr(err error) {
	switch {
	case errors.Is(err, models.ErrNothingSelected):
		fmt.Fprintln(h.out, "select at least one option first")
	case errors.Is(err, models.ErrAlreadyVoted):
		fmt.Fprintln(h.out, "you already voted in this session")
	case errors.Is(err, models.ErrVoteExpired):
		fmt.Fprintln(h.out, "this poll has closed")
	case errors.Is(err, models.ErrVoteNotFound):
		fmt.Fprintln(h.out, "no such option in this poll")
	default:
		h.printErr(err)
		fmt.Fprintln(h.out, "your selection is kept, you can retry with \"submit\"")
	}
}
