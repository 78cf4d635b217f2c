package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ParthRana1023/ai-courtroom/api"
	"github.com/ParthRana1023/ai-courtroom/api/ratelimit"
	"github.com/ParthRana1023/ai-courtroom/config"
	"github.com/ParthRana1023/ai-courtroom/databases"
	"github.com/ParthRana1023/ai-courtroom/llm"
	"github.com/ParthRana1023/ai-courtroom/models"
)

// Minimum user filings across both sides, the opening included, before a
// closing statement is accepted
const closingMinArguments = 3

// Counsel generates the AI lawyer and judge responses
type Counsel interface {
	OpeningStatement(ctx context.Context, aiRole models.Role, caseDetails string) (string, error)
	CounterArgument(ctx context.Context, history, userInput string, aiRole models.Role, caseDetails string) (string, error)
	ClosingStatement(ctx context.Context, history string, aiRole models.Role) (string, error)
	Verdict(ctx context.Context, plaintiffArgs, defendantArgs []string, caseDetails string) (string, error)
}

// Argument exposes the argument and closing-statement handlers
type Argument struct {
	DB      databases.CaseDatabase
	UDB     databases.UserDatabase
	Counsel Counsel
	Limiter *ratelimit.Limiter
}

// SubmitArgumentHandler runs one turn of the courtroom exchange. On a fresh
// case the plaintiff always opens, so a user arguing as defendant gets an
// AI plaintiff opening generated before their own statement is recorded.
// Nothing is persisted when generation fails.
func (a Argument) SubmitArgumentHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitArgumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	req.Argument = strings.TrimSpace(req.Argument)

	if req.Role != models.RolePlaintiff && req.Role != models.RoleDefendant {
		config.ErrorStatus("Invalid role specified. Must be 'plaintiff' or 'defendant'", http.StatusBadRequest, w, fmt.Errorf("role %q", req.Role))
		return
	}
	if req.Argument == "" {
		config.ErrorStatus("Argument cannot be empty", http.StatusBadRequest, w, fmt.Errorf("empty argument"))
		return
	}

	user, err := currentUser(r, a.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	courtCase := ownedCase(w, r, a.DB, user)
	if courtCase == nil {
		return
	}

	if courtCase.Status == models.CaseStatusResolved || courtCase.Status == models.CaseStatusAdjourned {
		config.ErrorStatus("Cannot submit arguments for a closed case", http.StatusBadRequest, w, fmt.Errorf("case status %s", courtCase.Status))
		return
	}

	if !a.Limiter.Allow(user.Email) {
		config.ErrorStatus("Too many requests. Please try again later.", http.StatusTooManyRequests, w, fmt.Errorf("rate limited"))
		return
	}

	if err := checkRoles(courtCase, user, req.Role); err != nil {
		config.ErrorStatus(err.Error(), http.StatusForbidden, w, err)
		return
	}

	var resp models.ArgumentResponse

	fresh := len(courtCase.PlaintiffArguments) == 0 && len(courtCase.DefendantArguments) == 0
	if fresh {
		if req.Role == models.RolePlaintiff {
			resp, err = a.openAsPlaintiff(r.Context(), courtCase, user, req.Argument)
		} else {
			resp, err = a.openAsDefendant(r.Context(), courtCase, user, req.Argument)
		}
	} else {
		resp, err = a.exchange(r.Context(), courtCase, user, req.Role, req.Argument)
	}
	if err != nil {
		apology := llm.ApologyCounter
		if fresh {
			apology = llm.ApologyOpening
		}
		config.ErrorStatus(apology, http.StatusBadGateway, w, err)
		return
	}

	if err := a.saveCase(r.Context(), courtCase); err != nil {
		config.ErrorStatus("failed to save case", http.StatusInternalServerError, w, err)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// openAsPlaintiff records the user's opening and generates the AI
// defendant's opening in reply
func (a Argument) openAsPlaintiff(ctx context.Context, courtCase *models.Case, user *models.User, argument string) (models.ArgumentResponse, error) {
	aiOpening, err := a.Counsel.OpeningStatement(ctx, models.RoleDefendant, courtCase.Details)
	if err != nil {
		return models.ArgumentResponse{}, err
	}

	appendArgument(courtCase, models.RolePlaintiff, models.ArgumentItem{
		Type:    models.ArgumentTypeOpening,
		Content: argument,
		UserID:  user.ID.Hex(),
		Role:    models.RolePlaintiff,
	})
	appendArgument(courtCase, models.RoleDefendant, models.ArgumentItem{
		Type:    models.ArgumentTypeOpening,
		Content: aiOpening,
		Role:    models.RoleDefendant,
	})
	activate(courtCase, models.RolePlaintiff)

	return models.ArgumentResponse{
		AIOpeningStatement: aiOpening,
		AIOpeningRole:      models.RoleDefendant,
	}, nil
}

// openAsDefendant generates the AI plaintiff's opening first, records the
// user's defendant opening, then generates the AI plaintiff's counter
func (a Argument) openAsDefendant(ctx context.Context, courtCase *models.Case, user *models.User, argument string) (models.ArgumentResponse, error) {
	aiOpening, err := a.Counsel.OpeningStatement(ctx, models.RolePlaintiff, courtCase.Details)
	if err != nil {
		return models.ArgumentResponse{}, err
	}

	history := fmt.Sprintf("Defendant: %s\n", argument)
	aiCounter, err := a.Counsel.CounterArgument(ctx, history, argument, models.RolePlaintiff, courtCase.Details)
	if err != nil {
		return models.ArgumentResponse{}, err
	}

	appendArgument(courtCase, models.RolePlaintiff, models.ArgumentItem{
		Type:    models.ArgumentTypeOpening,
		Content: aiOpening,
		Role:    models.RolePlaintiff,
	})
	appendArgument(courtCase, models.RoleDefendant, models.ArgumentItem{
		Type:    models.ArgumentTypeOpening,
		Content: argument,
		UserID:  user.ID.Hex(),
		Role:    models.RoleDefendant,
	})
	appendArgument(courtCase, models.RolePlaintiff, models.ArgumentItem{
		Type:    models.ArgumentTypeCounter,
		Content: aiCounter,
		Role:    models.RolePlaintiff,
	})
	activate(courtCase, models.RoleDefendant)

	return models.ArgumentResponse{
		AIOpeningStatement: aiOpening,
		AIOpeningRole:      models.RolePlaintiff,
		AICounterArgument:  aiCounter,
		AICounterRole:      models.RolePlaintiff,
	}, nil
}

// exchange records one user argument on an ongoing case and generates the
// opposing counsel's counter-argument
func (a Argument) exchange(ctx context.Context, courtCase *models.Case, user *models.User, role models.Role, argument string) (models.ArgumentResponse, error) {
	userItem := models.ArgumentItem{
		Type:    models.ArgumentTypeUser,
		Content: argument,
		UserID:  user.ID.Hex(),
		Role:    role,
	}
	appendArgument(courtCase, role, userItem)

	aiRole := role.Opposite()
	history := buildHistory(courtCase, role)

	aiCounter, err := a.Counsel.CounterArgument(ctx, history, argument, aiRole, courtCase.Details)
	if err != nil {
		// roll back the in-memory append so the failed turn leaves no trace
		removeLastArgument(courtCase, role)
		return models.ArgumentResponse{}, err
	}

	appendArgument(courtCase, aiRole, models.ArgumentItem{
		Type:    models.ArgumentTypeCounter,
		Content: aiCounter,
		Role:    aiRole,
	})
	activate(courtCase, role)

	return models.ArgumentResponse{
		AICounterArgument: aiCounter,
		AICounterRole:     aiRole,
	}, nil
}

// ClosingStatementHandler records the user's closing, generates the AI
// closing and the verdict, and resolves the case
func (a Argument) ClosingStatementHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ClosingStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	req.Statement = strings.TrimSpace(req.Statement)

	if req.Role != models.RolePlaintiff && req.Role != models.RoleDefendant {
		config.ErrorStatus("Invalid role specified", http.StatusBadRequest, w, fmt.Errorf("role %q", req.Role))
		return
	}
	if req.Statement == "" {
		config.ErrorStatus("Statement cannot be empty", http.StatusBadRequest, w, fmt.Errorf("empty statement"))
		return
	}

	user, err := currentUser(r, a.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	courtCase := ownedCase(w, r, a.DB, user)
	if courtCase == nil {
		return
	}

	if courtCase.Status == models.CaseStatusResolved || courtCase.Status == models.CaseStatusAdjourned {
		config.ErrorStatus("Cannot submit arguments for a closed case", http.StatusBadRequest, w, fmt.Errorf("case status %s", courtCase.Status))
		return
	}

	if !a.Limiter.Allow(user.Email) {
		config.ErrorStatus("Too many requests. Please try again later.", http.StatusTooManyRequests, w, fmt.Errorf("rate limited"))
		return
	}

	if err := checkRoles(courtCase, user, req.Role); err != nil {
		config.ErrorStatus(err.Error(), http.StatusForbidden, w, err)
		return
	}

	if courtCase.UserArgumentCount() < closingMinArguments {
		config.ErrorStatus(
			fmt.Sprintf("At least %d arguments are required before submitting a closing statement", closingMinArguments),
			http.StatusBadRequest, w, fmt.Errorf("only %d user arguments", courtCase.UserArgumentCount()))
		return
	}

	aiRole := req.Role.Opposite()

	appendArgument(courtCase, req.Role, models.ArgumentItem{
		Type:    models.ArgumentTypeClosing,
		Content: req.Statement,
		UserID:  user.ID.Hex(),
		Role:    req.Role,
	})

	history := buildHistory(courtCase, req.Role)
	aiClosing, err := a.Counsel.ClosingStatement(r.Context(), history, aiRole)
	if err != nil {
		config.ErrorStatus(llm.ApologyClosing, http.StatusBadGateway, w, err)
		return
	}
	appendArgument(courtCase, aiRole, models.ArgumentItem{
		Type:    models.ArgumentTypeClosing,
		Content: aiClosing,
		Role:    aiRole,
	})

	plaintiffSide, defendantSide := partitionByRole(courtCase)
	verdict, err := a.Counsel.Verdict(r.Context(), plaintiffSide, defendantSide, courtCase.Details)
	if err != nil {
		config.ErrorStatus(llm.ApologyVerdict, http.StatusBadGateway, w, err)
		return
	}

	courtCase.Verdict = verdict
	courtCase.Status = models.CaseStatusResolved
	courtCase.UpdatedAt = time.Now()

	if err := a.saveCase(r.Context(), courtCase); err != nil {
		config.ErrorStatus("failed to save case", http.StatusInternalServerError, w, err)
		return
	}

	_ = json.NewEncoder(w).Encode(models.ClosingResponse{
		AIClosingStatement: aiClosing,
		AIClosingRole:      aiRole,
		Verdict:            verdict,
	})
}

// checkRoles enforces the stored case role and historical participation
func checkRoles(courtCase *models.Case, user *models.User, role models.Role) error {
	if courtCase.UserRole != "" && courtCase.UserRole != models.RoleNotStarted && courtCase.UserRole != role {
		return fmt.Errorf("Cannot submit as %s. Your assigned role in this case is %s", role, courtCase.UserRole)
	}

	existing := map[models.Role]bool{}
	for _, arg := range courtCase.PlaintiffArguments {
		if arg.UserID == user.ID.Hex() {
			existing[models.RolePlaintiff] = true
		}
	}
	for _, arg := range courtCase.DefendantArguments {
		if arg.UserID == user.ID.Hex() {
			existing[models.RoleDefendant] = true
		}
	}
	if len(existing) > 0 && !existing[role] {
		var prior []string
		for _, side := range []models.Role{models.RolePlaintiff, models.RoleDefendant} {
			if existing[side] {
				prior = append(prior, string(side))
			}
		}
		return fmt.Errorf("Cannot switch roles. Previously participated as %s", strings.Join(prior, ", "))
	}
	return nil
}

// appendArgument appends to the side's list, stamping timestamp and the
// next sequence number
func appendArgument(courtCase *models.Case, side models.Role, item models.ArgumentItem) {
	item.Timestamp = time.Now()
	item.Seq = courtCase.NextSeq()
	if side == models.RolePlaintiff {
		courtCase.PlaintiffArguments = append(courtCase.PlaintiffArguments, item)
	} else {
		courtCase.DefendantArguments = append(courtCase.DefendantArguments, item)
	}
}

func removeLastArgument(courtCase *models.Case, side models.Role) {
	if side == models.RolePlaintiff && len(courtCase.PlaintiffArguments) > 0 {
		courtCase.PlaintiffArguments = courtCase.PlaintiffArguments[:len(courtCase.PlaintiffArguments)-1]
	} else if side == models.RoleDefendant && len(courtCase.DefendantArguments) > 0 {
		courtCase.DefendantArguments = courtCase.DefendantArguments[:len(courtCase.DefendantArguments)-1]
	}
}

// activate marks the case active and pins the user's role on first contact
func activate(courtCase *models.Case, userRole models.Role) {
	if courtCase.Status == models.CaseStatusNotStarted {
		courtCase.Status = models.CaseStatusActive
	}
	if courtCase.UserRole == "" || courtCase.UserRole == models.RoleNotStarted {
		courtCase.UserRole = userRole
	}
	courtCase.UpdatedAt = time.Now()
}

// buildHistory renders the transcript for the AI, the user's side first
func buildHistory(courtCase *models.Case, userRole models.Role) string {
	var b strings.Builder
	write := func(items []models.ArgumentItem, label string) {
		for _, arg := range items {
			fmt.Fprintf(&b, "%s: %s\n", label, arg.Content)
		}
	}
	if userRole == models.RolePlaintiff {
		write(courtCase.PlaintiffArguments, "Plaintiff")
		write(courtCase.DefendantArguments, "Defendant")
	} else {
		write(courtCase.DefendantArguments, "Defendant")
		write(courtCase.PlaintiffArguments, "Plaintiff")
	}
	return b.String()
}

// partitionByRole splits every argument's content by the arguing side,
// regardless of which list it was stored in
func partitionByRole(courtCase *models.Case) (plaintiff, defendant []string) {
	for _, list := range [][]models.ArgumentItem{courtCase.PlaintiffArguments, courtCase.DefendantArguments} {
		for _, arg := range list {
			switch arg.Role {
			case models.RolePlaintiff:
				plaintiff = append(plaintiff, arg.Content)
			case models.RoleDefendant:
				defendant = append(defendant, arg.Content)
			}
		}
	}
	return plaintiff, defendant
}

// saveCase persists the mutated transcript, status, role and verdict
func (a Argument) saveCase(parent context.Context, courtCase *models.Case) error {
	ctx, cancel := api.WithQueryTimeout(parent)
	defer cancel()

	return a.DB.UpdateOne(ctx, bson.M{"_id": courtCase.ID}, bson.M{"$set": bson.M{
		"plaintiffArguments": courtCase.PlaintiffArguments,
		"defendantArguments": courtCase.DefendantArguments,
		"status":             courtCase.Status,
		"userRole":           courtCase.UserRole,
		"verdict":            courtCase.Verdict,
		"updatedAt":          courtCase.UpdatedAt,
	}})
}
