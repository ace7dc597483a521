package audit

import (
	"context"

	"agir-planning/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepository interface {
	Insert(ctx context.Context, entry *AuditLog) error
	FindByRecord(ctx context.Context, entity, recordID string, limit int64) ([]AuditLog, error)
}

type AuditRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAuditRepository(mongodb *database.MongodbDB) AuditRepository {
	return &AuditRepositoryImpl{
		Collection: mongodb.DB.Collection("audit_logs"),
	}
}

func (r *AuditRepositoryImpl) Insert(ctx context.Context, entry *AuditLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}

func (r *AuditRepositoryImpl) FindByRecord(ctx context.Context, entity, recordID string, limit int64) ([]AuditLog, error) {
	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"entity": entity, "record_id": recordID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []AuditLog
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
