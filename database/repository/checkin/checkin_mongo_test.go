package checkinRepo

import (
	"context"
	"testing"
	"time"

	"coachhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestDateRange(t *testing.T) {
	from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, dateRange(time.Time{}, time.Time{}))
	assert.Equal(t, bson.M{"$gte": from}, dateRange(from, time.Time{}))
	assert.Len(t, dateRange(from, from.AddDate(0, 0, 7)), 2)
}

func TestMongoCheckInRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("latest", func(mt *mtest.T) {
		repo := NewMongoCheckInRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "coachhub.checkins", mtest.FirstBatch, bson.D{
			{Key: "id", Value: "k1"},
			{Key: "clientId", Value: "c1"},
			{Key: "weightKg", Value: 81.5},
			{Key: "mood", Value: int32(4)},
		}))

		c, err := repo.Latest(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 81.5, c.WeightKg)
		assert.Equal(t, 4, c.Mood)
	})

	mt.Run("latest none", func(mt *mtest.T) {
		repo := NewMongoCheckInRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "coachhub.checkins", mtest.FirstBatch))

		_, err := repo.Latest(ctx, "c1")
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})

	mt.Run("count for doctor", func(mt *mtest.T) {
		repo := NewMongoCheckInRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "coachhub.checkins", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(5)}}))

		n, err := repo.CountForDoctor(ctx, "d1", time.Now().AddDate(0, 0, -7), time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
	})
}
