package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task_manager/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	DueDate     time.Time          `bson:"dueDate"`
	Priority    string             `bson:"priority"`
	Status      string             `bson:"status"`
	AssignedTo  string             `bson:"assignedTo"`
	CreatedBy   primitive.ObjectID `bson:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func newTaskDocument(t *models.Task) (taskDocument, error) {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return taskDocument{}, fmt.Errorf("task id %q: %w", t.ID, err)
	}
	creator, err := primitive.ObjectIDFromHex(t.CreatedBy)
	if err != nil {
		return taskDocument{}, fmt.Errorf("task creator %q: %w", t.CreatedBy, err)
	}
	return taskDocument{
		ID:          oid,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.UTC(),
		Priority:    t.Priority,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   creator,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}, nil
}

func (d taskDocument) toModel() models.Task {
	return models.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate.UTC(),
		Priority:    d.Priority,
		Status:      d.Status,
		AssignedTo:  d.AssignedTo,
		CreatedBy:   d.CreatedBy.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type TaskMongo struct {
	coll *mongo.Collection
}

func NewTaskMongo(db *mongo.Database) *TaskMongo {
	return &TaskMongo{coll: db.Collection(TasksCollection)}
}

var _ TaskRepo = (*TaskMongo)(nil)

// Create inserts t, assigning an id if it has none.
func (r *TaskMongo) Create(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = models.NewID()
	}
	doc, err := newTaskDocument(t)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID fetches a task. Malformed ids and misses return (nil, nil).
func (r *TaskMongo) GetByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find task %q: %w", id, err)
	}
	t := doc.toModel()
	return &t, nil
}

// Replace swaps the stored document for t as a whole.
func (r *TaskMongo) Replace(ctx context.Context, t *models.Task) (bool, error) {
	doc, err := newTaskDocument(t)
	if err != nil {
		return false, err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return false, fmt.Errorf("replace task %q: %w", t.ID, err)
	}
	return res.MatchedCount > 0, nil
}

// Delete removes the task with id.
func (r *TaskMongo) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete task %q: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

// List returns tasks matching f in insertion order.
func (r *TaskMongo) List(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	filter, ok := taskFilterDocument(f)
	if !ok {
		return []models.Task{}, nil
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	out := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

// taskFilterDocument translates f into a query. ok is false when the filter
// cannot match anything (a malformed creator id).
func taskFilterDocument(f TaskFilter) (bson.M, bool) {
	filter := bson.M{}
	if f.AssignedTo != "" {
		filter["assignedTo"] = f.AssignedTo
	}
	if f.CreatedBy != "" {
		oid, err := primitive.ObjectIDFromHex(f.CreatedBy)
		if err != nil {
			return nil, false
		}
		filter["createdBy"] = oid
	}
	if !f.DueBefore.IsZero() {
		filter["dueDate"] = bson.M{"$lt": f.DueBefore.UTC()}
	}
	if f.ExcludeStatus != "" {
		filter["status"] = bson.M{"$ne": f.ExcludeStatus}
	}
	return filter, true
}
