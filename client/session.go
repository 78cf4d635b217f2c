package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ParthRana1023/ai-courtroom/models"
)

const (
	opponentPollInterval = 2 * time.Second
	verdictRevealDelay   = 3 * time.Second
	limitRetrySeconds    = 2
)

// Session owns one courtroom view: the case, its merged transcript, the
// resolved role, the rate-limit cooldown and the opponent-arrival poller.
// All mutation goes through the session so a failed submission never
// leaves partial state behind.
type Session struct {
	api *Client
	log *zap.SugaredLogger

	cnr string

	mu              sync.Mutex
	courtCase       *models.Case
	history         models.CaseHistory
	role            models.Role
	closingEligible bool
	submitting      bool
	verdictVisible  bool
	analysis        string
	analysisSent    bool

	Countdown *Countdown
	opponent  *Poller

	onUpdate      func()
	onNotice      func(string)
	verdictDelay  time.Duration
	verdictTimer  *time.Timer
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithUpdateHook registers a callback fired whenever session state changes
func WithUpdateHook(fn func()) SessionOption {
	return func(s *Session) { s.onUpdate = fn }
}

// WithNoticeHook registers a callback for dismissible, non-blocking
// notices such as a failed analysis request
func WithNoticeHook(fn func(string)) SessionOption {
	return func(s *Session) { s.onNotice = fn }
}

// WithVerdictDelay overrides the verdict reveal delay
func WithVerdictDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.verdictDelay = d }
}

// NewSession bootstraps a courtroom view: it loads the case and its
// history, resolves the user's role against the roleHint, seeds the
// cooldown from the argument limit and, when the user defends a case the
// AI plaintiff has not yet opened, starts the opponent-arrival poller.
func NewSession(ctx context.Context, api *Client, cnr string, roleHint models.Role, opts ...SessionOption) (*Session, error) {
	s := &Session{
		api:          api,
		log:          api.log,
		cnr:          cnr,
		verdictDelay: verdictRevealDelay,
	}
	for _, o := range opts {
		o(s)
	}

	courtCase, err := api.GetCase(ctx, cnr)
	if err != nil {
		return nil, err
	}
	history, err := api.CaseHistory(ctx, cnr)
	if err != nil {
		return nil, err
	}

	s.courtCase = courtCase
	s.history = *history
	s.role = ResolveRole(history, roleHint, courtCase.UserRole)
	s.closingEligible = userArgumentCount(history) >= 3
	s.verdictVisible = history.Verdict != ""
	s.analysis = courtCase.Analysis

	s.Countdown = NewCountdown(func() { go s.refreshLimit() })
	if info, err := api.ArgumentLimit(ctx); err == nil {
		s.Countdown.Apply(*info)
	} else {
		s.log.Warnw("failed to fetch argument limit", "error", err)
	}

	s.opponent = NewPoller(opponentPollInterval, s.pollOpponent)
	if s.shouldWatchOpponent() {
		s.opponent.Start()
	}

	return s, nil
}

// CNR returns the case number this session is bound to
func (s *Session) CNR() string { return s.cnr }

// Role returns the resolved courtroom role
func (s *Session) Role() models.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// Case returns the loaded case document
func (s *Session) Case() models.Case {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.courtCase
}

// Status returns the case status as currently known
func (s *Session) Status() models.CaseStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courtCase.Status
}

// Transcript returns the merged ascending transcript
func (s *Session) Transcript() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.history
	return MergeTranscript(&h, s.role, "")
}

// ClosingEligible reports whether enough arguments have been exchanged to
// submit a closing statement
func (s *Session) ClosingEligible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closingEligible
}

// Submitting reports whether a submission is in flight
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Verdict returns the verdict once it is revealed, empty before that
func (s *Session) Verdict() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.verdictVisible {
		return ""
	}
	return s.history.Verdict
}

// Analysis returns the post-verdict analysis markdown, empty until the
// asynchronous analysis request lands
func (s *Session) Analysis() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// SubmitArgument validates and submits one argument, then merges the AI
// replies into the transcript. Openings generated for the plaintiff sort
// before the user's entry, counters after, via the assigned sequence.
func (s *Session) SubmitArgument(ctx context.Context, text string) (*models.ArgumentResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("argument must not be empty")
	}

	s.mu.Lock()
	if s.courtCase.Status != models.CaseStatusActive && s.courtCase.Status != models.CaseStatusNotStarted {
		s.mu.Unlock()
		return nil, fmt.Errorf("case is %s, arguments are closed", s.courtCase.Status)
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, fmt.Errorf("a submission is already in flight")
	}
	role := s.role
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if s.Countdown.Blocked() {
		return nil, fmt.Errorf("argument limit reached, wait for the cooldown")
	}

	resp, err := s.api.SubmitArgument(ctx, s.cnr, role, text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	switch {
	case resp.AIOpeningStatement != "" && role == models.RolePlaintiff:
		// user opened the case, AI defendant replied
		s.appendLocked(role, models.ArgumentTypeOpening, text, true)
		s.appendLocked(resp.AIOpeningRole, models.ArgumentTypeOpening, resp.AIOpeningStatement, false)
	case resp.AIOpeningStatement != "":
		// defendant-first case: the AI plaintiff opening files first
		s.appendLocked(resp.AIOpeningRole, models.ArgumentTypeOpening, resp.AIOpeningStatement, false)
		s.appendLocked(role, models.ArgumentTypeOpening, text, true)
	default:
		s.appendLocked(role, models.ArgumentTypeUser, text, true)
	}
	if resp.AICounterArgument != "" {
		s.appendLocked(resp.AICounterRole, models.ArgumentTypeCounter, resp.AICounterArgument, false)
	}

	if s.courtCase.Status == models.CaseStatusNotStarted {
		s.courtCase.Status = models.CaseStatusActive
	}
	if s.courtCase.UserRole == "" || s.courtCase.UserRole == models.RoleNotStarted {
		s.courtCase.UserRole = role
	}
	s.closingEligible = userArgumentCount(&s.history) >= 3
	s.mu.Unlock()

	s.opponent.Stop()
	go s.refreshLimit()
	s.notifyUpdate()
	return resp, nil
}

// SubmitClosingStatement submits the user's closing, records both closings
// and holds the verdict back for the reveal delay. The analysis request is
// fired asynchronously; its failure surfaces as a dismissible notice.
func (s *Session) SubmitClosingStatement(ctx context.Context, text string) (*models.ClosingResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("closing statement must not be empty")
	}

	s.mu.Lock()
	if !s.closingEligible {
		s.mu.Unlock()
		return nil, fmt.Errorf("at least 3 arguments are required before closing statements")
	}
	if s.courtCase.Status != models.CaseStatusActive {
		s.mu.Unlock()
		return nil, fmt.Errorf("case is %s, closing statements are closed", s.courtCase.Status)
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, fmt.Errorf("a submission is already in flight")
	}
	role := s.role
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if s.Countdown.Blocked() {
		return nil, fmt.Errorf("argument limit reached, wait for the cooldown")
	}

	resp, err := s.api.SubmitClosingStatement(ctx, s.cnr, role, text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.appendLocked(role, models.ArgumentTypeClosing, text, true)
	s.appendLocked(resp.AIClosingRole, models.ArgumentTypeClosing, resp.AIClosingStatement, false)
	s.history.Verdict = resp.Verdict
	s.courtCase.Status = models.CaseStatusResolved
	s.verdictVisible = false
	s.verdictTimer = time.AfterFunc(s.verdictDelay, func() {
		s.mu.Lock()
		s.verdictVisible = true
		s.mu.Unlock()
		s.notifyUpdate()
	})
	alreadySent := s.analysisSent
	s.analysisSent = true
	s.mu.Unlock()

	if !alreadySent {
		go s.fetchAnalysis()
	}

	s.opponent.Stop()
	s.notifyUpdate()
	return resp, nil
}

// fetchAnalysis requests the post-verdict analysis in the background
func (s *Session) fetchAnalysis() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	resp, err := s.api.AnalyzeCase(ctx, s.cnr)
	if err != nil {
		s.log.Warnw("case analysis failed", "cnr", s.cnr, "error", err)
		if s.onNotice != nil {
			s.onNotice("Case analysis is unavailable right now. You can retry from the case view.")
		}
		s.mu.Lock()
		s.analysisSent = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.analysis = resp.Analysis
	s.mu.Unlock()
	s.notifyUpdate()
}

// refreshLimit refetches the argument limit and reapplies the countdown.
// It is the expiry refetch, so it runs once per expiry.
func (s *Session) refreshLimit() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	info, err := s.api.ArgumentLimit(ctx)
	if err != nil {
		s.log.Warnw("failed to refresh argument limit", "error", err)
		s.Countdown.RetryIn(limitRetrySeconds)
		return
	}
	s.Countdown.Apply(*info)
	s.notifyUpdate()
}

// shouldWatchOpponent reports whether the defendant is still waiting for
// the AI plaintiff's first filing
func (s *Session) shouldWatchOpponent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courtCase.Status == models.CaseStatusActive &&
		s.role == models.RoleDefendant &&
		len(s.history.PlaintiffArguments) == 0
}

// pollOpponent refetches the history and stops polling once the
// plaintiff's side holds any argument. Fetch errors only log.
func (s *Session) pollOpponent(ctx context.Context) bool {
	history, err := s.api.CaseHistory(ctx, s.cnr)
	if err != nil {
		s.log.Debugw("opponent poll failed", "cnr", s.cnr, "error", err)
		return false
	}
	if len(history.PlaintiffArguments) == 0 {
		return false
	}

	s.mu.Lock()
	s.history = *history
	s.mu.Unlock()
	s.notifyUpdate()
	return true
}

// Close releases the session's pollers and timers
func (s *Session) Close() {
	s.opponent.Stop()
	s.mu.Lock()
	if s.verdictTimer != nil {
		s.verdictTimer.Stop()
	}
	s.mu.Unlock()
}

// appendLocked adds a transcript entry with the next sequence number.
// Caller must hold the session lock.
func (s *Session) appendLocked(side models.Role, argType, content string, fromUser bool) {
	item := models.ArgumentItem{
		Type:      argType,
		Content:   content,
		Role:      side,
		Timestamp: time.Now(),
		Seq:       len(s.history.PlaintiffArguments) + len(s.history.DefendantArguments) + 1,
	}
	if fromUser {
		item.UserID = UserSentinel
	}
	if side == models.RolePlaintiff {
		s.history.PlaintiffArguments = append(s.history.PlaintiffArguments, item)
	} else {
		s.history.DefendantArguments = append(s.history.DefendantArguments, item)
	}
}

func (s *Session) notifyUpdate() {
	if s.onUpdate != nil {
		s.onUpdate()
	}
}

// userArgumentCount counts the user's own filings across both sides.
// The user's opening counts; closing statements and AI entries do not.
func userArgumentCount(history *models.CaseHistory) int {
	n := 0
	for _, list := range [][]models.ArgumentItem{history.PlaintiffArguments, history.DefendantArguments} {
		for _, item := range list {
			if !item.IsAI() && item.Type != models.ArgumentTypeClosing {
				n++
			}
		}
	}
	return n
}
