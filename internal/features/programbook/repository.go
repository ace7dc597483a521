package programbook

import (
	"context"

	"agir-planning/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProgramBookRepository interface {
	Save(ctx context.Context, pb *ProgramBook) error
	FindByID(ctx context.Context, id string) (*ProgramBook, error)
	FindByAnnualProgram(ctx context.Context, annualProgramID string) ([]ProgramBook, error)
	Delete(ctx context.Context, id string) error
}

type ProgramBookRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewProgramBookRepository(mongodb *database.MongodbDB) ProgramBookRepository {
	return &ProgramBookRepositoryImpl{
		Collection: mongodb.DB.Collection("program_books"),
	}
}

func (r *ProgramBookRepositoryImpl) Save(ctx context.Context, pb *ProgramBook) error {
	if pb.ID.IsZero() {
		pb.ID = primitive.NewObjectID()
		_, err := r.Collection.InsertOne(ctx, pb)
		return err
	}
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": pb.ID}, pb)
	return err
}

func (r *ProgramBookRepositoryImpl) FindByID(ctx context.Context, id string) (*ProgramBook, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var pb ProgramBook
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&pb)
	if err != nil {
		return nil, err
	}
	return &pb, nil
}

func (r *ProgramBookRepositoryImpl) FindByAnnualProgram(ctx context.Context, annualProgramID string) ([]ProgramBook, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"annualProgramId": annualProgramID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []ProgramBook
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ProgramBookRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
