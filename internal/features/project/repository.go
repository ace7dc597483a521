package project

import (
	"context"

	"agir-planning/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Criteria struct {
	IDs            []string
	ExcludeIds     []string
	Status         string
	ProgramBookID  string
	ExecutorID     string
	InterventionID string
	OrderBy        string
}

type ProjectRepository interface {
	Save(ctx context.Context, prj *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindAll(ctx context.Context, criteria Criteria, limit, offset int64) ([]Project, int64, error)
	FindByIntervention(ctx context.Context, interventionID string) (*Project, error)
	Delete(ctx context.Context, id string) error
}

type ProjectRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewProjectRepository(mongodb *database.MongodbDB) ProjectRepository {
	return &ProjectRepositoryImpl{
		Collection: mongodb.DB.Collection("projects"),
	}
}

func (r *ProjectRepositoryImpl) Save(ctx context.Context, prj *Project) error {
	if prj.ID.IsZero() {
		prj.ID = primitive.NewObjectID()
		_, err := r.Collection.InsertOne(ctx, prj)
		return err
	}
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": prj.ID}, prj)
	return err
}

func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id string) (*Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var prj Project
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&prj)
	if err != nil {
		return nil, err
	}
	return &prj, nil
}

func (r *ProjectRepositoryImpl) FindAll(ctx context.Context, criteria Criteria, limit, offset int64) ([]Project, int64, error) {
	filter := bson.M{}
	if criteria.Status != "" {
		filter["status"] = criteria.Status
	}
	if criteria.ProgramBookID != "" {
		filter["programBookId"] = criteria.ProgramBookID
	}
	if criteria.ExecutorID != "" {
		filter["executorId"] = criteria.ExecutorID
	}
	if criteria.InterventionID != "" {
		filter["interventionIds"] = criteria.InterventionID
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetLimit(limit).SetSkip(offset)
	if criteria.OrderBy != "" {
		opts.SetSort(bson.D{{Key: criteria.OrderBy, Value: 1}})
	}

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []Project
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ProjectRepositoryImpl) FindByIntervention(ctx context.Context, interventionID string) (*Project, error) {
	var prj Project
	err := r.Collection.FindOne(ctx, bson.M{"interventionIds": interventionID}).Decode(&prj)
	if err != nil {
		return nil, err
	}
	return &prj, nil
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
