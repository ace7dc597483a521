package taxonomy

import (
	"context"

	"agir-planning/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TaxonomyRepository interface {
	Save(ctx context.Context, tax *Taxonomy) error
	FindByGroup(ctx context.Context, group string) ([]Taxonomy, error)
	FindAll(ctx context.Context) ([]Taxonomy, error)
	Delete(ctx context.Context, id string) error
}

type TaxonomyRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewTaxonomyRepository(mongodb *database.MongodbDB) TaxonomyRepository {
	return &TaxonomyRepositoryImpl{
		Collection: mongodb.DB.Collection("taxonomies"),
	}
}

func (r *TaxonomyRepositoryImpl) Save(ctx context.Context, tax *Taxonomy) error {
	if tax.ID.IsZero() {
		tax.ID = primitive.NewObjectID()
		_, err := r.Collection.InsertOne(ctx, tax)
		return err
	}
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": tax.ID}, tax)
	return err
}

func (r *TaxonomyRepositoryImpl) FindByGroup(ctx context.Context, group string) ([]Taxonomy, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"group": group})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []Taxonomy
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *TaxonomyRepositoryImpl) FindAll(ctx context.Context) ([]Taxonomy, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []Taxonomy
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *TaxonomyRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
