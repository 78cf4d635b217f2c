package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ParthRana1023/ai-courtroom/api"
	"github.com/ParthRana1023/ai-courtroom/config"
	"github.com/ParthRana1023/ai-courtroom/databases"
	"github.com/ParthRana1023/ai-courtroom/models"
)

// Analyzer reviews the user's courtroom performance
type Analyzer interface {
	AnalyzeCase(ctx context.Context, title, caseDetails string, userArgs, counterArgs []string, verdict string) (string, error)
}

// Analysis exposes the post-verdict analysis handler
type Analysis struct {
	DB       databases.CaseDatabase
	UDB      databases.UserDatabase
	Analyzer Analyzer
}

// AnalyzeCaseHandler generates a performance report for a resolved case and
// stores it so repeat requests return the same analysis
func (a Analysis) AnalyzeCaseHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, a.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	courtCase := ownedCase(w, r, a.DB, user)
	if courtCase == nil {
		return
	}

	if courtCase.Status != models.CaseStatusResolved {
		config.ErrorStatus("Case must be resolved before it can be analyzed", http.StatusBadRequest, w, fmt.Errorf("case status %s", courtCase.Status))
		return
	}

	if courtCase.Analysis != "" {
		_ = json.NewEncoder(w).Encode(models.AnalysisResponse{Analysis: courtCase.Analysis})
		return
	}

	userArgs, counterArgs := partitionByAuthor(courtCase, user)

	analysis, err := a.Analyzer.AnalyzeCase(r.Context(), courtCase.Title, courtCase.Details, userArgs, counterArgs, courtCase.Verdict)
	if err != nil {
		config.ErrorStatus("failed to analyze case", http.StatusBadGateway, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	err = a.DB.UpdateOne(ctx, bson.M{"_id": courtCase.ID}, bson.M{"$set": bson.M{
		"analysis":  analysis,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		config.ErrorStatus("failed to store analysis", http.StatusInternalServerError, w, err)
		return
	}

	_ = json.NewEncoder(w).Encode(models.AnalysisResponse{Analysis: analysis})
}

// partitionByAuthor splits argument contents into the user's own and the
// AI opponent's
func partitionByAuthor(courtCase *models.Case, user *models.User) (userArgs, counterArgs []string) {
	for _, list := range [][]models.ArgumentItem{courtCase.PlaintiffArguments, courtCase.DefendantArguments} {
		for _, arg := range list {
			if arg.UserID == user.ID.Hex() {
				userArgs = append(userArgs, arg.Content)
			} else if arg.IsAI() {
				counterArgs = append(counterArgs, arg.Content)
			}
		}
	}
	return userArgs, counterArgs
}
