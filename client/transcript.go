package client

import (
	"sort"

	"github.com/ParthRana1023/ai-courtroom/models"
)

// UserSentinel marks locally appended entries as the current user's own
// before the server has echoed them back with a real user id.
const UserSentinel = "current-user"

// Entry is one row of the merged courtroom transcript
type Entry struct {
	models.ArgumentItem
	IsPlaintiff bool
	IsUser      bool
}

// typeOrder ranks argument types for ordering within identical timestamps:
// openings first, the user/counter exchange next, closings last.
func typeOrder(argType string) int {
	switch argType {
	case models.ArgumentTypeOpening:
		return 0
	case models.ArgumentTypeClosing:
		return 2
	default:
		return 1
	}
}

// MergeTranscript folds the two per-side argument lists into a single
// ascending transcript. Ordering is by timestamp, then type order, then
// the assigned sequence number; the sort is stable, so entries that tie on
// every key keep their arrival order.
func MergeTranscript(history *models.CaseHistory, userRole models.Role, userID string) []Entry {
	if history == nil {
		return nil
	}

	entries := make([]Entry, 0, len(history.PlaintiffArguments)+len(history.DefendantArguments))
	for _, item := range history.PlaintiffArguments {
		entries = append(entries, Entry{
			ArgumentItem: item,
			IsPlaintiff:  true,
			IsUser:       isUserEntry(item, userRole, userID),
		})
	}
	for _, item := range history.DefendantArguments {
		entries = append(entries, Entry{
			ArgumentItem: item,
			IsPlaintiff:  false,
			IsUser:       isUserEntry(item, userRole, userID),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if typeOrder(a.Type) != typeOrder(b.Type) {
			return typeOrder(a.Type) < typeOrder(b.Type)
		}
		return a.Seq < b.Seq
	})

	return entries
}

// isUserEntry reports whether a transcript item was authored by the
// current user rather than the AI
func isUserEntry(item models.ArgumentItem, userRole models.Role, userID string) bool {
	if item.IsAI() {
		return false
	}
	if item.UserID == UserSentinel {
		return true
	}
	if userID != "" {
		return item.UserID == userID
	}
	return item.Role == userRole
}
