package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/ParthRana1023/ai-courtroom/api/ratelimit"
	"github.com/ParthRana1023/ai-courtroom/databases"
	"github.com/ParthRana1023/ai-courtroom/models"
)

// How long an active case may sit without a new argument before the court
// adjourns it
const adjournAfter = 7 * 24 * time.Hour

// Scheduler handles the periodic background jobs: the daily rate-limit
// reset and adjourning stale cases
type Scheduler struct {
	cron       *cron.Cron
	CDB        databases.CaseDatabase
	ArgLimiter *ratelimit.Limiter
	GenLimiter *ratelimit.Limiter
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cdb databases.CaseDatabase, argLimiter, genLimiter *ratelimit.Limiter) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		CDB:        cdb,
		ArgLimiter: argLimiter,
		GenLimiter: genLimiter,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Reset the daily caps at midnight UTC
	_, err := s.cron.AddFunc("0 0 * * *", s.resetRateLimits)
	if err != nil {
		zap.S().Errorw("failed to register rate limit reset job", "error", err)
	}

	// Adjourn idle cases shortly after, once the reset has run
	_, err = s.cron.AddFunc("30 0 * * *", s.adjournStaleCases)
	if err != nil {
		zap.S().Errorw("failed to register adjournment job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("courtroom scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("courtroom scheduler stopped")
}

func (s *Scheduler) resetRateLimits() {
	s.ArgLimiter.Reset()
	s.GenLimiter.Reset()
	zap.S().Info("daily rate limits reset")
}

// adjournStaleCases moves active cases with no argument activity past the
// cutoff into the adjourned state
func (s *Scheduler) adjournStaleCases() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-adjournAfter)
	filter := bson.M{
		"status":    models.CaseStatusActive,
		"updatedAt": bson.M{"$lt": cutoff},
	}

	cases, err := s.CDB.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to list stale cases", "error", err)
		return
	}

	for _, c := range cases {
		err := s.CDB.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
			"status":    models.CaseStatusAdjourned,
			"updatedAt": time.Now(),
		}})
		if err != nil {
			zap.S().Errorw("failed to adjourn case", "cnr", c.CNR, "error", err)
			continue
		}
		zap.S().Infow("case adjourned for inactivity", "cnr", c.CNR)
	}
}
