package service

import (
	"sort"

	"github.com/loboot/vote-system/internal/models"
)

// State of one poll-viewing selection session.
type State int

const (
	StateIdle State = iota
	StateSelecting
	StateSubmitting
	StateSubmitted
	StateExpired
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelecting:
		return "selecting"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateExpired:
		return "expired"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Selection holds the set of chosen option ids for one viewing session.
// Single-select keeps at most one id; toggles are rejected once the session
// has submitted or the poll has expired.
type Selection struct {
	multi  bool
	state  State
	chosen map[int]struct{}
}

func NewSelection(multi bool) *Selection {
	return &Selection{
		multi:  multi,
		state:  StateIdle,
		chosen: make(map[int]struct{}),
	}
}

func (s *Selection) State() State {
	return s.state
}

func (s *Selection) Selected(id int) bool {
	_, ok := s.chosen[id]
	return ok
}

func (s *Selection) Empty() bool {
	return len(s.chosen) == 0
}

// OptionIDs returns the chosen ids in ascending order.
func (s *Selection) OptionIDs() []int {
	ids := make([]int, 0, len(s.chosen))
	for id := range s.chosen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Toggle flips option id in or out of the selection. In single-select mode a
// different id replaces the whole set; the same id clears it.
func (s *Selection) Toggle(id int) error {
	switch s.state {
	case StateSubmitting:
		return models.ErrSubmitInProgress
	case StateSubmitted:
		return models.ErrAlreadyVoted
	case StateExpired:
		return models.ErrVoteExpired
	}

	if _, ok := s.chosen[id]; ok {
		delete(s.chosen, id)
	} else if s.multi {
		s.chosen[id] = struct{}{}
	} else {
		s.chosen = map[int]struct{}{id: {}}
	}
	s.state = StateSelecting
	return nil
}

// beginSubmit locks the selection for the duration of the network call.
// An empty selection is a guard, not an error state: the caller skips the
// call and the state is left as-is.
func (s *Selection) beginSubmit() error {
	switch s.state {
	case StateSubmitting:
		return models.ErrSubmitInProgress
	case StateSubmitted:
		return models.ErrAlreadyVoted
	case StateExpired:
		return models.ErrVoteExpired
	}
	if len(s.chosen) == 0 {
		return models.ErrNothingSelected
	}
	s.state = StateSubmitting
	return nil
}

// finishSubmit resolves an in-flight submit. Success discards the set and
// locks the session; failure keeps the set so the user can retry.
func (s *Selection) finishSubmit(ok bool) {
	if s.state != StateSubmitting {
		return
	}
	if ok {
		s.chosen = make(map[int]struct{})
		s.state = StateSubmitted
	} else {
		s.state = StateErrored
	}
}

// markExpired locks the session once the deadline has passed, whatever the
// prior state.
func (s *Selection) markExpired() {
	s.state = StateExpired
}
