package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ParthRana1023/ai-courtroom/api/ratelimit"
	"github.com/ParthRana1023/ai-courtroom/databases/mocks"
	"github.com/ParthRana1023/ai-courtroom/models"
)

func TestResetRateLimits(t *testing.T) {
	arg := ratelimit.New(1, ratelimit.Window)
	gen := ratelimit.New(1, ratelimit.Window)
	arg.Allow("user@example.com")
	gen.Allow("user@example.com")
	require.False(t, arg.Allow("user@example.com"))

	s := NewScheduler(mocks.NewCaseDatabase(t), arg, gen)
	s.resetRateLimits()

	assert.True(t, arg.Allow("user@example.com"))
	assert.True(t, gen.Allow("user@example.com"))
}

func TestAdjournStaleCases(t *testing.T) {
	cdb := mocks.NewCaseDatabase(t)
	stale := models.Case{
		ID:        primitive.NewObjectID(),
		CNR:       "ABCD1234EFGH5678",
		Status:    models.CaseStatusActive,
		UpdatedAt: time.Now().Add(-8 * 24 * time.Hour),
	}

	var filter bson.M
	cdb.On("Find", mock.Anything, mock.Anything).Return([]models.Case{stale}, nil).Run(func(args mock.Arguments) {
		filter = args.Get(1).(bson.M)
	})

	var update bson.M
	cdb.On("UpdateOne", mock.Anything, bson.M{"_id": stale.ID}, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		update = args.Get(2).(bson.M)
	})

	s := NewScheduler(cdb, ratelimit.New(1, ratelimit.Window), ratelimit.New(1, ratelimit.Window))
	s.adjournStaleCases()

	assert.Equal(t, models.CaseStatusActive, filter["status"])
	set := update["$set"].(bson.M)
	assert.Equal(t, models.CaseStatusAdjourned, set["status"])
}

func TestAdjournStaleCasesNothingStale(t *testing.T) {
	cdb := mocks.NewCaseDatabase(t)
	cdb.On("Find", mock.Anything, mock.Anything).Return(nil, nil)

	s := NewScheduler(cdb, ratelimit.New(1, ratelimit.Window), ratelimit.New(1, ratelimit.Window))
	s.adjournStaleCases()
}
