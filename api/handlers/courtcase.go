package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ParthRana1023/ai-courtroom/api"
	"github.com/ParthRana1023/ai-courtroom/api/ratelimit"
	"github.com/ParthRana1023/ai-courtroom/config"
	"github.com/ParthRana1023/ai-courtroom/databases"
	"github.com/ParthRana1023/ai-courtroom/llm"
	"github.com/ParthRana1023/ai-courtroom/models"
)

// CaseGenerator drafts new cases from IPC sections
type CaseGenerator interface {
	GenerateCase(ctx context.Context, sections []string, numbers []int) (title, details string, err error)
}

// Case exposes the case lifecycle handlers
type Case struct {
	DB        databases.CaseDatabase
	UDB       databases.UserDatabase
	Generator CaseGenerator
	Limiter   *ratelimit.Limiter
}

// currentUser resolves the authenticated caller to their user document
func currentUser(r *http.Request, udb databases.UserDatabase) (*models.User, error) {
	email := api.UserEmail(r)
	if email == "" {
		return nil, fmt.Errorf("no authenticated user on request")
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	return udb.FindOne(ctx, bson.M{"email": email})
}

// ownedCase loads the case from the cnr path variable and checks the caller
// owns it. Writes the error response itself when it returns nil.
func ownedCase(w http.ResponseWriter, r *http.Request, cdb databases.CaseDatabase, user *models.User) *models.Case {
	cnr := mux.Vars(r)["cnr"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	courtCase, err := cdb.FindOne(ctx, bson.M{"cnr": cnr})
	if err != nil {
		config.ErrorStatus("Case not found", http.StatusNotFound, w, err)
		return nil
	}
	if courtCase.UserID != user.ID {
		config.ErrorStatus("Not authorized to access this case", http.StatusForbidden, w, fmt.Errorf("case owned by another user"))
		return nil
	}
	return courtCase
}

// GenerateCaseHandler drafts a new case for the caller, subject to the
// daily case-generation cap
func (c Case) GenerateCaseHandler(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	user, err := currentUser(r, c.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	if !c.Limiter.Allow(user.Email) {
		config.ErrorStatus("Too many requests. Please try again later.", http.StatusTooManyRequests, w, fmt.Errorf("rate limited"))
		return
	}

	title, details, err := c.Generator.GenerateCase(r.Context(), req.SectionsInvolved, req.SectionNumbers)
	if err != nil {
		config.ErrorStatus("failed to generate case", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now()
	courtCase := models.Case{
		ID:        primitive.NewObjectID(),
		CNR:       llm.NewCNR(),
		UserID:    user.ID,
		Title:     title,
		Details:   details,
		Status:    models.CaseStatusNotStarted,
		UserRole:  models.RoleNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if _, err := c.DB.InsertOne(ctx, courtCase); err != nil {
		config.ErrorStatus("failed to store case", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(courtCase)
}

// ListCasesHandler returns the caller's cases, newest first
func (c Case) ListCasesHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, c.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cases, err := c.DB.Find(ctx, bson.M{"userID": user.ID})
	if err != nil {
		config.ErrorStatus("failed to list cases", http.StatusInternalServerError, w, err)
		return
	}

	summaries := make([]models.CaseSummary, 0, len(cases))
	for _, cc := range cases {
		summaries = append(summaries, models.CaseSummary{
			ID:        cc.ID.Hex(),
			CNR:       cc.CNR,
			Title:     cc.Title,
			Status:    cc.Status,
			CreatedAt: cc.CreatedAt,
		})
	}

	_ = json.NewEncoder(w).Encode(summaries)
}

// CaseByCNRHandler returns one case with its full transcript
func (c Case) CaseByCNRHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, c.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	courtCase := ownedCase(w, r, c.DB, user)
	if courtCase == nil {
		return
	}

	_ = json.NewEncoder(w).Encode(courtCase)
}

// DeleteCaseHandler removes one of the caller's cases
func (c Case) DeleteCaseHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, c.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	courtCase := ownedCase(w, r, c.DB, user)
	if courtCase == nil {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if err := c.DB.DeleteOne(ctx, bson.M{"_id": courtCase.ID}); err != nil {
		config.ErrorStatus("failed to delete case", http.StatusInternalServerError, w, err)
		return
	}

	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "case deleted"})
}

// CaseHistoryHandler returns the role-partitioned transcript
func (c Case) CaseHistoryHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, c.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	courtCase := ownedCase(w, r, c.DB, user)
	if courtCase == nil {
		return
	}

	history := models.CaseHistory{
		PlaintiffArguments: courtCase.PlaintiffArguments,
		DefendantArguments: courtCase.DefendantArguments,
		Verdict:            courtCase.Verdict,
	}
	if history.PlaintiffArguments == nil {
		history.PlaintiffArguments = []models.ArgumentItem{}
	}
	if history.DefendantArguments == nil {
		history.DefendantArguments = []models.ArgumentItem{}
	}

	_ = json.NewEncoder(w).Encode(history)
}
