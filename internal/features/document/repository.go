package document

import (
	"context"

	"agir-planning/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DocumentRepository interface {
	Save(ctx context.Context, obj *StoredObject) error
	Get(ctx context.Context, id string) (*StoredObject, error)
	Delete(ctx context.Context, id string) error
}

type DocumentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDocumentRepository(mongodb *database.MongodbDB) DocumentRepository {
	return &DocumentRepositoryImpl{
		Collection: mongodb.DB.Collection("documents"),
	}
}

func (r *DocumentRepositoryImpl) Save(ctx context.Context, obj *StoredObject) error {
	if obj.ID.IsZero() {
		obj.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, obj)
	return err
}

func (r *DocumentRepositoryImpl) Get(ctx context.Context, id string) (*StoredObject, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var obj StoredObject
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&obj)
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
