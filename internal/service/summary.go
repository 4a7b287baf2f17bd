package service

import "github.com/loboot/vote-system/internal/models"

// Poll status constants
const (
	StatusActive  = "active"
	StatusUrgent  = "urgent"
	StatusExpired = "expired"
)

const previewLimit = 3

// Summary is the list view-model for one poll.
type Summary struct {
	ID        int
	Title     string
	Multi     bool
	Total     int
	Status    string
	Countdown string
	Preview   []string
	More      int
}

// Summarize derives the list row for one poll at the given instant.
func Summarize(vote models.Vote, now int64) Summary {
	status := StatusActive
	switch {
	case Expired(vote.Deadline, now):
		status = StatusExpired
	case Urgent(vote.Deadline, now):
		status = StatusUrgent
	}

	preview := make([]string, 0, previewLimit)
	for i, option := range vote.Options {
		if i == previewLimit {
			break
		}
		preview = append(preview, option.Content)
	}

	return Summary{
		ID:        vote.ID,
		Title:     vote.Title,
		Multi:     vote.Multi,
		Total:     TotalVotes(vote.Options),
		Status:    status,
		Countdown: Countdown(vote.Deadline, now),
		Preview:   preview,
		More:      max(0, len(vote.Options)-previewLimit),
	}
}

// SummarizeAll keeps the backend's ordering.
func SummarizeAll(votes []models.Vote, now int64) []Summary {
	summaries := make([]Summary, len(votes))
	for i, vote := range votes {
		summaries[i] = Summarize(vote, now)
	}
	return summaries
}
