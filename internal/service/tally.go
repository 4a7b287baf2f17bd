package service

import "github.com/loboot/vote-system/internal/models"

// TotalVotes sums the server-authoritative option counts of a poll.
func TotalVotes(options []models.VoteOption) int {
	total := 0
	for _, option := range options {
		total += option.Count
	}
	return total
}

// Percentage returns count/total as an integer percentage, rounded half-up.
// A total of zero yields zero so an empty poll never divides by zero.
func Percentage(count, total int) int {
	if total <= 0 || count <= 0 {
		return 0
	}
	return (200*count + total) / (2 * total)
}
