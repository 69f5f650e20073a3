// internal/dataset/mongo_test.go
package dataset

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/models"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	driveID := primitive.NewObjectID()
	companyID := primitive.NewObjectID()
	created := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	mt.Run("drives decode object ids as hex", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".drives"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: driveID},
			{Key: "company", Value: companyID},
			{Key: "institute", Value: "i1"},
			{Key: "title", Value: "Backend Engineer"},
			{Key: "skills", Value: bson.A{"Go", "Docker"}},
			{Key: "workflow", Value: bson.D{{Key: "steps", Value: bson.A{
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Screening"}},
			}}}},
			{Key: "published", Value: true},
			{Key: "createdAt", Value: primitive.NewDateTimeFromTime(created)},
		}))

		store := NewMongoStore(mt.DB, nil)
		drives, err := store.Drives(context.Background(), DriveFilter{CompanyID: companyID.Hex()})
		require.NoError(mt, err)
		require.Len(mt, drives, 1)

		d := drives[0]
		assert.Equal(mt, driveID.Hex(), d.ID)
		assert.Equal(mt, companyID.Hex(), d.Company)
		assert.Equal(mt, []string{"Go", "Docker"}, d.Skills)
		require.Len(mt, d.Steps(), 1)
		assert.Equal(mt, "Screening", d.Steps()[0].Name)
		assert.True(mt, d.Published)
		assert.Equal(mt, created, d.CreatedAt.UTC())
	})

	mt.Run("applications", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".applieddrives"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "a1"},
				{Key: "drive", Value: driveID},
				{Key: "user", Value: "u1"},
				{Key: "status", Value: "hired"},
				{Key: "salary", Value: 950000.0},
				{Key: "scores", Value: bson.A{bson.D{{Key: "stageId", Value: "s1"}, {Key: "score", Value: 77.5}}}},
			},
			bson.D{
				{Key: "_id", Value: "a2"},
				{Key: "drive", Value: driveID},
				{Key: "user", Value: "u2"},
				{Key: "status", Value: "rejected"},
				{Key: "disqualifiedStage", Value: "Screening"},
			},
		))

		apps, err := NewMongoStore(mt.DB, nil).Applications(context.Background(), []string{driveID.Hex()})
		require.NoError(mt, err)
		require.Len(mt, apps, 2)
		assert.Equal(mt, models.StatusHired, apps[0].Status)
		assert.Equal(mt, 77.5, *apps[0].Scores[0].Score)
		assert.Equal(mt, "Screening", apps[1].DisqualifiedStage)
	})

	mt.Run("undecodable documents are skipped", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".drives"
		brokenID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: driveID},
				{Key: "company", Value: companyID},
				{Key: "title", Value: "Backend Engineer"},
			},
			bson.D{
				{Key: "_id", Value: brokenID},
				{Key: "company", Value: companyID},
				{Key: "workflow", Value: bson.D{{Key: "steps", Value: "not-a-list"}}},
			},
		))

		core, logs := observer.New(zapcore.DebugLevel)
		store := NewMongoStore(mt.DB, logger.NewZapAdapter(zap.New(core)))
		drives, err := store.Drives(context.Background(), DriveFilter{CompanyID: companyID.Hex()})
		require.NoError(mt, err)
		require.Len(mt, drives, 1)
		assert.Equal(mt, driveID.Hex(), drives[0].ID)

		skipped := logs.FilterMessage("skipping undecodable document").All()
		require.Len(mt, skipped, 1)
		assert.Equal(mt, brokenID.Hex(), skipped[0].ContextMap()["id"])
		assert.Equal(mt, "drives", skipped[0].ContextMap()["collection"])
	})

	mt.Run("fractional proficiency drops only that candidate", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".candidates"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "u1"},
				{Key: "name", Value: "Asha"},
				{Key: "technicalSkills", Value: bson.A{bson.D{{Key: "skill", Value: "Go"}, {Key: "proficiency", Value: 3.5}}}},
			},
			bson.D{
				{Key: "_id", Value: "u2"},
				{Key: "name", Value: "Ravi"},
				{Key: "technicalSkills", Value: bson.A{bson.D{{Key: "skill", Value: "SQL"}, {Key: "proficiency", Value: int32(4)}}}},
			},
		))

		candidates, err := NewMongoStore(mt.DB, nil).Candidates(context.Background(), []string{"u1", "u2"})
		require.NoError(mt, err)
		require.Len(mt, candidates, 1)
		assert.Equal(mt, "u2", candidates[0].ID)
		assert.Equal(mt, 4, *candidates[0].TechnicalSkills[0].Proficiency)
	})

	mt.Run("command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized",
			Name:    "Unauthorized",
		}))

		_, err := NewMongoStore(mt.DB, nil).Companies(context.Background(), []string{"c1"})
		assert.Error(mt, err)
	})

	mt.Run("empty ids skip the round trip", func(mt *mtest.T) {
		candidates, err := NewMongoStore(mt.DB, nil).Candidates(context.Background(), nil)
		assert.NoError(mt, err)
		assert.Nil(mt, candidates)
	})
}

func TestIDValue(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid, idValue(oid.Hex()))
	assert.Equal(t, "c1", idValue("c1"))
	assert.Equal(t, []interface{}{oid, "x"}, idValues([]string{oid.Hex(), "x"}))
}
