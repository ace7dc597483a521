package submission

import (
	"context"

	"agir-planning/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SubmissionRepository interface {
	Save(ctx context.Context, sub *Submission) error
	FindByID(ctx context.Context, id string) (*Submission, error)
	FindByNumber(ctx context.Context, submissionNumber string) (*Submission, error)
	FindByProject(ctx context.Context, projectID string) (*Submission, error)
	FindByProgramBook(ctx context.Context, programBookID string) ([]Submission, error)
	Delete(ctx context.Context, id string) error
}

type SubmissionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSubmissionRepository(mongodb *database.MongodbDB) SubmissionRepository {
	return &SubmissionRepositoryImpl{
		Collection: mongodb.DB.Collection("submissions"),
	}
}

func (r *SubmissionRepositoryImpl) Save(ctx context.Context, sub *Submission) error {
	if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
		_, err := r.Collection.InsertOne(ctx, sub)
		return err
	}
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": sub.ID}, sub)
	return err
}

func (r *SubmissionRepositoryImpl) FindByID(ctx context.Context, id string) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var sub Submission
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubmissionRepositoryImpl) FindByNumber(ctx context.Context, submissionNumber string) (*Submission, error) {
	var sub Submission
	err := r.Collection.FindOne(ctx, bson.M{"submissionNumber": submissionNumber}).Decode(&sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubmissionRepositoryImpl) FindByProject(ctx context.Context, projectID string) (*Submission, error) {
	var sub Submission
	err := r.Collection.FindOne(ctx, bson.M{"projectIds": projectID}).Decode(&sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubmissionRepositoryImpl) FindByProgramBook(ctx context.Context, programBookID string) ([]Submission, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"programBookId": programBookID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []Submission
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SubmissionRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
