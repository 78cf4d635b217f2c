package client_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ParthRana1023/ai-courtroom/client"
	"github.com/ParthRana1023/ai-courtroom/models"
)

func arg(argType string, role models.Role, content, userID string, ts time.Time, seq int) models.ArgumentItem {
	return models.ArgumentItem{
		Type:      argType,
		Content:   content,
		UserID:    userID,
		Role:      role,
		Timestamp: ts,
		Seq:       seq,
	}
}

func TestMergeTranscriptOrdersByTimestamp(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	history := &models.CaseHistory{
		PlaintiffArguments: []models.ArgumentItem{
			arg(models.ArgumentTypeOpening, models.RolePlaintiff, "p-open", "u1", base, 1),
			arg(models.ArgumentTypeUser, models.RolePlaintiff, "p-arg", "u1", base.Add(2*time.Minute), 3),
		},
		DefendantArguments: []models.ArgumentItem{
			arg(models.ArgumentTypeOpening, models.RoleDefendant, "d-open", "", base.Add(time.Minute), 2),
			arg(models.ArgumentTypeCounter, models.RoleDefendant, "d-counter", "", base.Add(3*time.Minute), 4),
		},
	}

	entries := client.MergeTranscript(history, models.RolePlaintiff, "u1")

	contents := make([]string, 0, len(entries))
	for _, e := range entries {
		contents = append(contents, e.Content)
	}
	assert.Equal(t, []string{"p-open", "d-open", "p-arg", "d-counter"}, contents)
	assert.True(t, entries[0].IsUser)
	assert.False(t, entries[1].IsUser)
	assert.True(t, entries[0].IsPlaintiff)
	assert.False(t, entries[3].IsPlaintiff)
}

func TestMergeTranscriptOpeningSortsFirstOnEqualTimestamps(t *testing.T) {
	// defendant-first case: the AI plaintiff opening and the user's
	// defendant opening can land with the same timestamp
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	history := &models.CaseHistory{
		PlaintiffArguments: []models.ArgumentItem{
			arg(models.ArgumentTypeCounter, models.RolePlaintiff, "p-counter", "", ts, 3),
			arg(models.ArgumentTypeOpening, models.RolePlaintiff, "p-open", "", ts, 1),
		},
		DefendantArguments: []models.ArgumentItem{
			arg(models.ArgumentTypeOpening, models.RoleDefendant, "d-open", "u1", ts, 2),
		},
	}

	entries := client.MergeTranscript(history, models.RoleDefendant, "u1")

	assert.Equal(t, "p-open", entries[0].Content)
	assert.Equal(t, "d-open", entries[1].Content)
	assert.Equal(t, "p-counter", entries[2].Content)
}

func TestMergeTranscriptSeqBreaksTies(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	history := &models.CaseHistory{
		PlaintiffArguments: []models.ArgumentItem{
			arg(models.ArgumentTypeUser, models.RolePlaintiff, "second", "u1", ts, 2),
		},
		DefendantArguments: []models.ArgumentItem{
			arg(models.ArgumentTypeCounter, models.RoleDefendant, "third", "", ts, 3),
			arg(models.ArgumentTypeUser, models.RoleDefendant, "first", "u2", ts, 1),
		},
	}

	entries := client.MergeTranscript(history, models.RolePlaintiff, "u1")

	assert.Equal(t, "first", entries[0].Content)
	assert.Equal(t, "second", entries[1].Content)
	assert.Equal(t, "third", entries[2].Content)
}

func TestMergeTranscriptUserSentinel(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	history := &models.CaseHistory{
		DefendantArguments: []models.ArgumentItem{
			arg(models.ArgumentTypeUser, models.RoleDefendant, "mine", client.UserSentinel, ts, 1),
			arg(models.ArgumentTypeCounter, models.RoleDefendant, "ai", "", ts.Add(time.Second), 2),
		},
	}

	entries := client.MergeTranscript(history, models.RolePlaintiff, "")

	assert.True(t, entries[0].IsUser)
	assert.False(t, entries[1].IsUser)
}

func TestMergeTranscriptNilHistory(t *testing.T) {
	assert.Nil(t, client.MergeTranscript(nil, models.RolePlaintiff, ""))
}
