package client

import (
	"go.uber.org/zap"

	"github.com/ParthRana1023/ai-courtroom/models"
)

// ResolveRole determines which side the user argues for in a case view.
// Detected participation in the history outranks everything: a plaintiff
// argument authored by a user pins plaintiff, then a defendant one pins
// defendant. Absent participation the navigation hint applies (unless it
// is not_started), then the role stored on the case, then the plaintiff
// default. Resolution is pure, so resolving twice over the same inputs
// yields the same answer.
func ResolveRole(history *models.CaseHistory, hint, stored models.Role) models.Role {
	detected := detectParticipation(history)

	if detected != "" {
		if hint == models.RolePlaintiff || hint == models.RoleDefendant {
			if hint != detected {
				zap.S().Warnw("role hint conflicts with case participation, using participation",
					"hint", hint,
					"detected", detected,
				)
			}
		}
		return detected
	}

	if hint == models.RolePlaintiff || hint == models.RoleDefendant {
		return hint
	}

	if stored == models.RolePlaintiff || stored == models.RoleDefendant {
		return stored
	}

	return models.RolePlaintiff
}

// detectParticipation finds which side holds user-authored arguments,
// checking the plaintiff list first
func detectParticipation(history *models.CaseHistory) models.Role {
	if history == nil {
		return ""
	}
	for _, item := range history.PlaintiffArguments {
		if !item.IsAI() {
			return models.RolePlaintiff
		}
	}
	for _, item := range history.DefendantArguments {
		if !item.IsAI() {
			return models.RoleDefendant
		}
	}
	return ""
}
