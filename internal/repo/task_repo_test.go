package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func rawDoc(t *testing.T, d bson.D) bson.Raw {
	t.Helper()
	b, err := bson.Marshal(d)
	require.NoError(t, err)
	return bson.Raw(b)
}

func TestDecodeTask(t *testing.T) {
	id := primitive.NewObjectID()

	got, err := decodeTask(rawDoc(t, bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: "buy milk"},
		{Key: "priority", Value: 3},
	}))
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "buy milk", got.Title)

	got, err = decodeTask(rawDoc(t, bson.D{{Key: "_id", Value: id}, {Key: "title", Value: ""}}))
	require.NoError(t, err)
	assert.Equal(t, "", got.Title)
}

func TestDecodeTaskRejectsNonConforming(t *testing.T) {
	id := primitive.NewObjectID()
	cases := map[string]bson.D{
		"missing id":    {{Key: "title", Value: "no id"}},
		"string id":     {{Key: "_id", Value: "abc"}, {Key: "title", Value: "x"}},
		"missing title": {{Key: "_id", Value: id}},
		"numeric title": {{Key: "_id", Value: id}, {Key: "title", Value: 42}},
		"null title":    {{Key: "_id", Value: id}, {Key: "title", Value: nil}},
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeTask(rawDoc(t, d))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDocument))
		})
	}
}

func TestMongoTaskRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list skips malformed documents", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		good := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: good}, {Key: "title", Value: "buy milk"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}},
			bson.D{{Key: "title", Value: "orphan"}},
		))

		list, err := r.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, list, 1)
		assert.Equal(mt, good, list[0].ID)
		assert.Equal(mt, "buy milk", list[0].Title)
	})

	mt.Run("list empty collection", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		list, err := r.List(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
	})

	mt.Run("list store error", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))

		_, err := r.List(ctx)
		require.Error(mt, err)
	})

	mt.Run("create", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, r.Create(ctx, "buy milk"))
	})

	mt.Run("create store error", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 121, Message: "document failed validation",
		}))

		err := r.Create(ctx, "buy milk")
		require.Error(mt, err)
		assert.False(mt, errors.Is(err, mongo.ErrNoDocuments))
	})

	mt.Run("update matched", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(mt, r.UpdateTitle(ctx, primitive.NewObjectID(), "buy bread"))
	})

	mt.Run("update same title still matches", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		require.NoError(mt, r.UpdateTitle(ctx, primitive.NewObjectID(), "unchanged"))
	})

	mt.Run("update not found", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := r.UpdateTitle(ctx, primitive.NewObjectID(), "x")
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})

	mt.Run("update store error", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))

		err := r.UpdateTitle(ctx, primitive.NewObjectID(), "x")
		require.Error(mt, err)
		assert.False(mt, errors.Is(err, mongo.ErrNoDocuments))
	})

	mt.Run("delete removed", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, r.Delete(ctx, primitive.NewObjectID()))
	})

	mt.Run("delete not found", func(mt *mtest.T) {
		r := NewMongoTaskRepo(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := r.Delete(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})
}
