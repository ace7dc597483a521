package intervention

import (
	"context"

	"agir-planning/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Criteria narrows intervention queries. Zero values are ignored.
type Criteria struct {
	IDs        []string
	ExcludeIds []string
	Status     string
	ProgramID  string
	ExecutorID string
	BoroughID  string
	OrderBy    string
}

type InterventionRepository interface {
	Save(ctx context.Context, itv *Intervention) error
	SaveBulk(ctx context.Context, itvs []*Intervention) error
	FindByID(ctx context.Context, id string) (*Intervention, error)
	FindAll(ctx context.Context, criteria Criteria, limit, offset int64) ([]Intervention, int64, error)
	FindByExternalReference(ctx context.Context, refType, value string) ([]Intervention, error)
	FindByAssetExternalReference(ctx context.Context, refType, value string) ([]Intervention, error)
	Delete(ctx context.Context, id string) error
}

type InterventionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewInterventionRepository(mongodb *database.MongodbDB) InterventionRepository {
	return &InterventionRepositoryImpl{
		Collection: mongodb.DB.Collection("interventions"),
	}
}

func (r *InterventionRepositoryImpl) Save(ctx context.Context, itv *Intervention) error {
	if itv.ID.IsZero() {
		itv.ID = primitive.NewObjectID()
		_, err := r.Collection.InsertOne(ctx, itv)
		return err
	}
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": itv.ID}, itv)
	return err
}

func (r *InterventionRepositoryImpl) SaveBulk(ctx context.Context, itvs []*Intervention) error {
	for _, itv := range itvs {
		if err := r.Save(ctx, itv); err != nil {
			return err
		}
	}
	return nil
}

func (r *InterventionRepositoryImpl) FindByID(ctx context.Context, id string) (*Intervention, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var itv Intervention
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&itv)
	if err != nil {
		return nil, err
	}
	return &itv, nil
}

func criteriaFilter(criteria Criteria) bson.M {
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
	if criteria.ProgramID != "" {
		filter["programId"] = criteria.ProgramID
	}
	if criteria.ExecutorID != "" {
		filter["executorId"] = criteria.ExecutorID
	}
	if criteria.BoroughID != "" {
		filter["boroughId"] = criteria.BoroughID
	}
	return filter
}

func (r *InterventionRepositoryImpl) FindAll(ctx context.Context, criteria Criteria, limit, offset int64) ([]Intervention, int64, error) {
	filter := criteriaFilter(criteria)

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

	var items []Intervention
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *InterventionRepositoryImpl) FindByExternalReference(ctx context.Context, refType, value string) ([]Intervention, error) {
	filter := bson.M{
		"externalReferenceIds": bson.M{
			"$elemMatch": bson.M{"type": refType, "value": value},
		},
	}
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []Intervention
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InterventionRepositoryImpl) FindByAssetExternalReference(ctx context.Context, refType, value string) ([]Intervention, error) {
	filter := bson.M{
		"assets.externalReferenceIds": bson.M{
			"$elemMatch": bson.M{"type": refType, "value": value},
		},
	}
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []Intervention
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InterventionRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
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
