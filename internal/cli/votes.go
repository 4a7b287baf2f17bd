package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/loboot/vote-system/internal/models"
	"github.com/loboot/vote-system/internal/service"
)

func (h *Handler) list(ctx context.Context) {
	votes, err := h.repo.AllVotes(ctx)
	if err != nil {
		h.printErr(err)
		return
	}
	h.renderSummaries(votes)
}

func (h *Handler) mine(ctx context.Context) {
	if !h.requireAuth() {
		return
	}
	votes, err := h.repo.MyVotes(ctx)
	if err != nil {
		h.printErr(err)
		return
	}
	h.renderSummaries(votes)
}

func (h *Handler) renderSummaries(votes []models.Vote) {
	if len(votes) == 0 {
		fmt.Fprintln(h.out, "no polls yet")
		return
	}
	now := time.Now().Unix()
	for _, s := range service.SummarizeAll(votes, now) {
		mode := "single"
		if s.Multi {
			mode = "multi"
		}
		preview := strings.Join(s.Preview, " / ")
		if s.More > 0 {
			preview += fmt.Sprintf(" (+%d more)", s.More)
		}
		fmt.Fprintf(h.out, "#%d  %s  [%s, %s]  %d votes  %s\n      %s\n",
			s.ID, s.Title, mode, s.Status, s.Total, s.Countdown, preview)
	}
	fmt.Fprintf(h.out, "%d polls\n", len(votes))
}

func (h *Handler) show(ctx context.Context, id int) {
	vote, err := h.repo.GetVote(ctx, id)
	if err != nil {
		h.printErr(err)
		return
	}
	h.renderDetail(vote, nil)
}

func (h *Handler) renderDetail(vote *models.Vote, selected func(int) bool) {
	now := time.Now().Unix()
	total := service.TotalVotes(vote.Options)
	mode := "single choice"
	if vote.Multi {
		mode = "multiple choice"
	}
	fmt.Fprintf(h.out, "#%d  %s  (%s)\n", vote.ID, vote.Title, mode)
	fmt.Fprintf(h.out, "%d votes total, %s\n", total, service.Countdown(vote.Deadline, now))
	for _, option := range vote.Options {
		pct := service.Percentage(option.Count, total)
		mark := " "
		if selected != nil && selected(option.ID) {
			mark = "x"
		}
		fmt.Fprintf(h.out, "  [%s] (%d) %-30s %3d votes %3d%% %s\n",
			mark, option.ID, option.Content, option.Count, pct, bar(pct))
	}
}

// bar renders a 20-char progress bar for an integer percentage.
func bar(pct int) string {
	filled := pct / 5
	return strings.Repeat("#", filled) + strings.Repeat("-", 20-filled)
}

// watch renders a live 1-second countdown until the poll expires, the user
// presses enter, or the context is cancelled. The ticker is always stopped on
// the way out.
func (h *Handler) watch(ctx context.Context, id int) {
	vote, err := h.repo.GetVote(ctx, id)
	if err != nil {
		h.printErr(err)
		return
	}
	if vote.Deadline == 0 {
		fmt.Fprintf(h.out, "#%d has no deadline\n", vote.ID)
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	fmt.Fprintln(h.out, "press enter to stop watching")
	for {
		now := time.Now().Unix()
		if service.Expired(vote.Deadline, now) {
			fmt.Fprintf(h.out, "\r#%d: %-30s\n", vote.ID, service.MarkerExpired)
			return
		}
		fmt.Fprintf(h.out, "\r#%d closes in %-30s", vote.ID, service.Countdown(vote.Deadline, now))
		select {
		case <-ctx.Done():
			fmt.Fprintln(h.out)
			return
		case <-h.lines:
			fmt.Fprintln(h.out)
			return
		case <-ticker.C:
		}
	}
}

func (h *Handler) create(ctx context.Context) {
	if !h.requireAuth() {
		return
	}
	req, ok := h.pollForm(ctx)
	if !ok {
		return
	}
	vote, err := h.repo.CreateVote(ctx, *req)
	if err != nil {
		h.printErr(err)
		return
	}
	fmt.Fprintf(h.out, "created poll #%d\n", vote.ID)
}

func (h *Handler) update(ctx context.Context, id int) {
	if !h.requireAuth() {
		return
	}
	req, ok := h.pollForm(ctx)
	if !ok {
		return
	}
	vote, err := h.repo.UpdateVote(ctx, models.UpdateVoteRequest{
		ID:       id,
		Title:    req.Title,
		Options:  req.Options,
		Multi:    req.Multi,
		Deadline: req.Deadline,
	})
	if err != nil {
		h.printErr(err)
		return
	}
	fmt.Fprintf(h.out, "updated poll #%d\n", vote.ID)
}

// pollForm walks the user through the create/update form and validates it
// before any network call; on a validation failure the entered values are
// echoed back with field-scoped messages.
func (h *Handler) pollForm(ctx context.Context) (*models.CreateVoteRequest, bool) {
	title, ok := h.readLine(ctx, "title: ")
	if !ok {
		return nil, false
	}
	multiAnswer, ok := h.readLine(ctx, "allow multiple choices? [y/N]: ")
	if !ok {
		return nil, false
	}
	multi := strings.EqualFold(strings.TrimSpace(multiAnswer), "y")

	fmt.Fprintln(h.out, "options, one per line, empty line to finish:")
	var options []string
	for len(options) <= maxFormOptions {
		option, ok := h.readLine(ctx, fmt.Sprintf("  option %d: ", len(options)+1))
		if !ok {
			return nil, false
		}
		if strings.TrimSpace(option) == "" {
			break
		}
		options = append(options, option)
	}

	deadlineAnswer, ok := h.readLine(ctx, "time until close, e.g. 48h or 30m (empty = none): ")
	if !ok {
		return nil, false
	}
	now := time.Now().Unix()
	var deadline int64
	if strings.TrimSpace(deadlineAnswer) != "" {
		dur, err := time.ParseDuration(strings.TrimSpace(deadlineAnswer))
		if err != nil {
			fmt.Fprintf(h.out, "  deadline: cannot parse %q\n", deadlineAnswer)
			return nil, false
		}
		deadline = now + int64(dur.Seconds())
	}

	if errs := service.ValidateCreate(title, options, deadline, now); errs != nil {
		h.printErr(errs)
		return nil, false
	}
	return &models.CreateVoteRequest{
		Title:    strings.TrimSpace(title),
		Options:  service.CleanOptions(options),
		Multi:    multi,
		Deadline: deadline,
	}, true
}

const maxFormOptions = 10

func (h *Handler) delete(ctx context.Context, id int) {
	if !h.requireAuth() {
		return
	}
	answer, ok := h.readLine(ctx, fmt.Sprintf("delete poll #%d? [y/N]: ", id))
	if !ok || !strings.EqualFold(strings.TrimSpace(answer), "y") {
		fmt.Fprintln(h.out, "cancelled")
		return
	}
	if err := h.repo.DeleteVote(ctx, id); err != nil {
		h.printErr(err)
		return
	}
	fmt.Fprintf(h.out, "deleted poll #%d\n", id)
}
