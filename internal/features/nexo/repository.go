package nexo

import (
	"context"
	"time"

	"agir-planning/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogCriteria narrows import log searches. Zero values are ignored.
type LogCriteria struct {
	IDs        []string
	ExcludeIds []string
	Status     ImportStatus
}

type ImportLogRepository interface {
	Save(ctx context.Context, log *NexoImportLog) error
	FindByID(ctx context.Context, id string) (*NexoImportLog, error)
	FindAll(ctx context.Context, criteria LogCriteria, limit, offset int64) ([]NexoImportLog, int64, error)
	// FindOneRunning returns any log with status PENDING or IN_PROGRESS,
	// optionally excluding one id, or nil when none is running.
	FindOneRunning(ctx context.Context, excludeID string) (*NexoImportLog, error)
	// FindStale returns IN_PROGRESS logs untouched since the cutoff.
	FindStale(ctx context.Context, updatedBefore time.Time) ([]NexoImportLog, error)
}

type ImportLogRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewImportLogRepository(mongodb *database.MongodbDB) ImportLogRepository {
	return &ImportLogRepositoryImpl{
		Collection: mongodb.DB.Collection("nexoImportLogs"),
	}
}

func (r *ImportLogRepositoryImpl) Save(ctx context.Context, log *NexoImportLog) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
		_, err := r.Collection.InsertOne(ctx, log)
		return err
	}
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": log.ID}, log)
	return err
}

func (r *ImportLogRepositoryImpl) FindByID(ctx context.Context, id string) (*NexoImportLog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var log NexoImportLog
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *ImportLogRepositoryImpl) FindAll(ctx context.Context, criteria LogCriteria, limit, offset int64) ([]NexoImportLog, int64, error) {
	filter := bson.M{}
	if len(criteria.IDs) > 0 {
		filter["_id"] = bson.M{"$in": toObjectIDs(criteria.IDs)}
	}
	if len(criteria.ExcludeIds) > 0 {
		filter["_id"] = bson.M{"$nin": toObjectIDs(criteria.ExcludeIds)}
	}
	if criteria.Status != "" {
		filter["status"] = criteria.Status
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetLimit(limit).
		SetSkip(offset).
		SetSort(bson.D{{Key: "audit.createdAt", Value: -1}})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []NexoImportLog
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ImportLogRepositoryImpl) FindOneRunning(ctx context.Context, excludeID string) (*NexoImportLog, error) {
	filter := bson.M{
		"status": bson.M{"$in": []ImportStatus{ImportStatusPending, ImportStatusInProgress}},
	}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}

	var log NexoImportLog
	err := r.Collection.FindOne(ctx, filter).Decode(&log)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *ImportLogRepositoryImpl) FindStale(ctx context.Context, updatedBefore time.Time) ([]NexoImportLog, error) {
	filter := bson.M{
		"status":          ImportStatusInProgress,
		"audit.updatedAt": bson.M{"$lt": updatedBefore},
	}
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []NexoImportLog
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func toObjectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}
