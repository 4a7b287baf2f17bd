package service

import (
	"testing"

	"github.com/loboot/vote-system/internal/models"
)

func TestSummarize(t *testing.T) {
	const now = int64(1000)

	tests := []struct {
		name        string
		vote        models.Vote
		wantTotal   int
		wantStatus  string
		wantPreview int
		wantMore    int
	}{
		{
			name: "active without deadline",
			vote: models.Vote{
				ID:    1,
				Title: "lunch spot",
				Options: []models.VoteOption{
					{Content: "A", Count: 3},
					{Content: "B", Count: 1},
				},
			},
			wantTotal:   4,
			wantStatus:  StatusActive,
			wantPreview: 2,
		},
		{
			name: "urgent within the hour",
			vote: models.Vote{
				ID:       2,
				Deadline: now + 1800,
				Options:  []models.VoteOption{{Content: "A"}, {Content: "B"}},
			},
			wantStatus:  StatusUrgent,
			wantPreview: 2,
		},
		{
			name: "expired",
			vote: models.Vote{
				ID:       3,
				Deadline: now - 1,
				Options:  []models.VoteOption{{Content: "A"}, {Content: "B"}},
			},
			wantStatus:  StatusExpired,
			wantPreview: 2,
		},
		{
			name: "preview capped at three",
			vote: models.Vote{
				ID: 4,
				Options: []models.VoteOption{
					{Content: "A"}, {Content: "B"}, {Content: "C"},
					{Content: "D"}, {Content: "E"},
				},
			},
			wantStatus:  StatusActive,
			wantPreview: 3,
			wantMore:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.vote, now)
			if got.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", got.Total, tt.wantTotal)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if len(got.Preview) != tt.wantPreview {
				t.Errorf("Preview length = %d, want %d", len(got.Preview), tt.wantPreview)
			}
			if got.More != tt.wantMore {
				t.Errorf("More = %d, want %d", got.More, tt.wantMore)
			}
		})
	}
}

// Full end-to-end derivation for a poll with counts 3 and 1 and no deadline.
func TestSummarizeEndToEnd(t *testing.T) {
	vote := models.Vote{
		ID:    9,
		Title: "tabs or spaces",
		Options: []models.VoteOption{
			{ID: 1, Content: "tabs", Count: 3},
			{ID: 2, Content: "spaces", Count: 1},
		},
	}
	s := Summarize(vote, 123456)

	if s.Total != 4 {
		t.Errorf("Total = %d, want 4", s.Total)
	}
	if s.Status != StatusActive {
		t.Errorf("Status = %q, want active", s.Status)
	}
	if s.Countdown != MarkerNoDeadline {
		t.Errorf("Countdown = %q, want no-deadline marker", s.Countdown)
	}
	if got := Percentage(vote.Options[0].Count, s.Total); got != 75 {
		t.Errorf("first option percentage = %d, want 75", got)
	}
	if got := Percentage(vote.Options[1].Count, s.Total); got != 25 {
		t.Errorf("second option percentage = %d, want 25", got)
	}
}

func TestSummarizeAllKeepsOrder(t *testing.T) {
	votes := []models.Vote{{ID: 5}, {ID: 2}, {ID: 9}}
	summaries := SummarizeAll(votes, 0)
	if len(summaries) != 3 {
		t.Fatalf("len = %d, want 3", len(summaries))
	}
	for i, want := range []int{5, 2, 9} {
		if summaries[i].ID != want {
			t.Errorf("summaries[%d].ID = %d, want %d", i, summaries[i].ID, want)
		}
	}
}
