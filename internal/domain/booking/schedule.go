package booking

import (
	"sort"

	"github.com/google/uuid"
)

type scheduleEntry struct {
	id   uuid.UUID
	slot TimeSlot
}

// Schedule is the availability index for a single spot: the set of active
// booking intervals ordered by start time. Insert and conflict probes are
// O(log n) + neighbour checks rather than a scan over every booking, which
// keeps large fleets cheap; the SQL path gets the same property from an
// index on (spot_id, start_time).
type Schedule struct {
	entries []scheduleEntry
}

func NewSchedule() *Schedule {
	return &Schedule{}
}

func (s *Schedule) Len() int {
	return len(s.entries)
}

// HasConflict reports whether [start, end) overlaps any indexed interval,
// ignoring excludeID when non-nil. Half-open semantics: touching intervals
// do not conflict.
func (s *Schedule) HasConflict(slot TimeSlot, excludeID *uuid.UUID) bool {
	// First entry starting at or after the probe's start.
	i := sort.Search(len(s.entries), func(i int) bool {
		return !s.entries[i].slot.Start().Before(slot.Start())
	})

	// Entries are pairwise non-overlapping, so the only candidates are the
	// nearest predecessor (which may span into the probe) and successors
	// starting before the probe ends. Excluded entries are skipped over.
	for j := i - 1; j >= 0; j-- {
		if excluded(s.entries[j], excludeID) {
			continue
		}
		if s.entries[j].slot.Overlaps(slot) {
			return true
		}
		break
	}
	for j := i; j < len(s.entries); j++ {
		if !s.entries[j].slot.Start().Before(slot.End()) {
			break
		}
		if excluded(s.entries[j], excludeID) {
			continue
		}
		if s.entries[j].slot.Overlaps(slot) {
			return true
		}
	}
	return false
}

// Add indexes a booking interval, keeping entries sorted by start time.
func (s *Schedule) Add(id uuid.UUID, slot TimeSlot) {
	i := sort.Search(len(s.entries), func(i int) bool {
		return !s.entries[i].slot.Start().Before(slot.Start())
	})
	s.entries = append(s.entries, scheduleEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = scheduleEntry{id: id, slot: slot}
}

// Remove drops a booking from the index, e.g. on cancellation or completion.
func (s *Schedule) Remove(id uuid.UUID) {
	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

func excluded(e scheduleEntry, excludeID *uuid.UUID) bool {
	return excludeID != nil && e.id == *excludeID
}
