package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	dom "taskapi/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrMalformedDocument marks a stored document that lacks an ObjectID _id or a string title.
var ErrMalformedDocument = errors.New("malformed task document")

// TaskRepo performs one store round-trip per call.
// UpdateTitle and Delete return mongo.ErrNoDocuments when nothing matched.
type TaskRepo interface {
	List(ctx context.Context) ([]dom.Task, error)
	Create(ctx context.Context, title string) error
	UpdateTitle(ctx context.Context, id primitive.ObjectID, title string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoTaskRepo struct {
	coll *mongo.Collection
	log  *slog.Logger
}

func NewMongoTaskRepo(coll *mongo.Collection, log *slog.Logger) *MongoTaskRepo {
	if log == nil {
		log = slog.Default()
	}
	return &MongoTaskRepo{coll: coll, log: log}
}

// List reads the whole collection. Documents that do not decode into a Task are skipped.
func (r *MongoTaskRepo) List(ctx context.Context) ([]dom.Task, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	list := make([]dom.Task, 0)
	for cur.Next(ctx) {
		t, err := decodeTask(cur.Current)
		if err != nil {
			r.log.DebugContext(ctx, "skipping task document", slog.String("error", err.Error()))
			continue
		}
		list = append(list, t)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return list, nil
}

// Create inserts a document holding only the title; the store assigns _id.
func (r *MongoTaskRepo) Create(ctx context.Context, title string) error {
	if _, err := r.coll.InsertOne(ctx, bson.D{{Key: "title", Value: title}}); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepo) UpdateTitle(ctx context.Context, id primitive.ObjectID, title string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "title", Value: title}}}},
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoTaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// decodeTask projects a raw document onto a Task. Extra fields are ignored.
func decodeTask(raw bson.Raw) (dom.Task, error) {
	idVal, err := raw.LookupErr("_id")
	if err != nil {
		return dom.Task{}, fmt.Errorf("%w: missing _id", ErrMalformedDocument)
	}
	id, ok := idVal.ObjectIDOK()
	if !ok {
		return dom.Task{}, fmt.Errorf("%w: _id is %s, not an ObjectID", ErrMalformedDocument, idVal.Type)
	}
	titleVal, err := raw.LookupErr("title")
	if err != nil {
		return dom.Task{}, fmt.Errorf("%w: %s has no title", ErrMalformedDocument, id.Hex())
	}
	title, ok := titleVal.StringValueOK()
	if !ok {
		return dom.Task{}, fmt.Errorf("%w: %s title is %s, not a string", ErrMalformedDocument, id.Hex(), titleVal.Type)
	}
	return dom.Task{ID: id, Title: title}, nil
}
