package annualprogram

import (
	"context"

	"agir-planning/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AnnualProgramRepository interface {
	Save(ctx context.Context, ap *AnnualProgram) error
	FindByID(ctx context.Context, id string) (*AnnualProgram, error)
	FindAll(ctx context.Context, executorID string, year int, limit, offset int64) ([]AnnualProgram, int64, error)
	Delete(ctx context.Context, id string) error
}

type AnnualProgramRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAnnualProgramRepository(mongodb *database.MongodbDB) AnnualProgramRepository {
	return &AnnualProgramRepositoryImpl{
		Collection: mongodb.DB.Collection("annual_programs"),
	}
}

func (r *AnnualProgramRepositoryImpl) Save(ctx context.Context, ap *AnnualProgram) error {
	if ap.ID.IsZero() {
		ap.ID = primitive.NewObjectID()
		_, err := r.Collection.InsertOne(ctx, ap)
		return err
	}
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": ap.ID}, ap)
	return err
}

func (r *AnnualProgramRepositoryImpl) FindByID(ctx context.Context, id string) (*AnnualProgram, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var ap AnnualProgram
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&ap)
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AnnualProgramRepositoryImpl) FindAll(ctx context.Context, executorID string, year int, limit, offset int64) ([]AnnualProgram, int64, error) {
	filter := bson.M{}
	if executorID != "" {
		filter["executorId"] = executorID
	}
	if year != 0 {
		filter["year"] = year
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetLimit(limit).SetSkip(offset).SetSort(bson.D{{Key: "year", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []AnnualProgram
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *AnnualProgramRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
