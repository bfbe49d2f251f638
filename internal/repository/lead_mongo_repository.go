package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/spec-kit/lead-dashboard/internal/domain"
	"github.com/spec-kit/lead-dashboard/internal/query"
)

// CollectionLeads is the Mongo collection holding lead documents.
const CollectionLeads = "leads"

type leadDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Phone     string        `bson:"phone,omitempty"`
	Company   string        `bson:"company,omitempty"`
	Stage     string        `bson:"stage"`
	Status    string        `bson:"status"`
	Notes     string        `bson:"notes"`
	CreatedAt time.Time     `bson:"createdAt"`
}

type countDocument struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

type mongoLeadRepository struct {
	coll *mongo.Collection
}

// NewMongoLeadRepository instantiates a repository over the leads collection of db.
func NewMongoLeadRepository(db *mongo.Database) LeadRepository {
	return &mongoLeadRepository{coll: db.Collection(CollectionLeads)}
}

func (r *mongoLeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	doc := toLeadDocument(lead)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return mapMongoError(err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		lead.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLeadRepository) InsertMany(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	docs := make([]leadDocument, 0, len(leads))
	for i := range leads {
		docs = append(docs, toLeadDocument(&leads[i]))
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return mapMongoError(err)
	}
	for i, id := range res.InsertedIDs {
		if oid, ok := id.(bson.ObjectID); ok && i < len(leads) {
			leads[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoLeadRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *mongoLeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc leadDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	lead := doc.toDomain()
	return &lead, nil
}

func (r *mongoLeadRepository) List(ctx context.Context, q query.Query) ([]domain.Lead, error) {
	opts := options.Find().
		SetSort(mongoSort(q.Sort)).
		SetSkip(int64(q.Page.Skip())).
		SetLimit(int64(q.Page.Limit))

	cursor, err := r.coll.Find(ctx, mongoFilter(q.Filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []leadDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	leads := make([]domain.Lead, 0, len(docs))
	for i := range docs {
		leads = append(leads, docs[i].toDomain())
	}
	return leads, nil
}

func (r *mongoLeadRepository) Count(ctx context.Context, filter query.Filter) (int64, error) {
	return r.coll.CountDocuments(ctx, mongoFilter(filter))
}

func (r *mongoLeadRepository) CountByStage(ctx context.Context, filter query.Filter) ([]domain.StageCount, error) {
	groups, err := r.countBy(ctx, filter, "stage")
	if err != nil {
		return nil, err
	}
	result := make([]domain.StageCount, 0, len(groups))
	for _, g := range groups {
		result = append(result, domain.StageCount{Stage: domain.LeadStage(g.Key), Count: g.Count})
	}
	return result, nil
}

func (r *mongoLeadRepository) CountByStatus(ctx context.Context, filter query.Filter) ([]domain.StatusCount, error) {
	groups, err := r.countBy(ctx, filter, "status")
	if err != nil {
		return nil, err
	}
	result := make([]domain.StatusCount, 0, len(groups))
	for _, g := range groups {
		result = append(result, domain.StatusCount{Status: domain.LeadStatus(g.Key), Count: g.Count})
	}
	return result, nil
}

func (r *mongoLeadRepository) countBy(ctx context.Context, filter query.Filter, field string) ([]countDocument, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: mongoFilter(filter)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := []countDocument{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func mongoFilter(f query.Filter) bson.D {
	filter := bson.D{}
	if f.CreatedFrom != nil || f.CreatedTo != nil {
		rng := bson.D{}
		if f.CreatedFrom != nil {
			rng = append(rng, bson.E{Key: "$gte", Value: *f.CreatedFrom})
		}
		if f.CreatedTo != nil {
			rng = append(rng, bson.E{Key: "$lte", Value: *f.CreatedTo})
		}
		filter = append(filter, bson.E{Key: "createdAt", Value: rng})
	}
	if f.Search != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: pattern}},
			bson.D{{Key: "email", Value: pattern}},
			bson.D{{Key: "company", Value: pattern}},
		}})
	}
	if f.Stage != nil {
		filter = append(filter, bson.E{Key: "stage", Value: string(*f.Stage)})
	}
	if f.Status != nil {
		filter = append(filter, bson.E{Key: "status", Value: string(*f.Status)})
	}
	return filter
}

func mongoSort(s query.Sort) bson.D {
	dir := -1
	if s.Order == query.SortAsc {
		dir = 1
	}
	field := "createdAt"
	if s.Field == query.SortByName {
		field = "name"
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}
}

func mapMongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func toLeadDocument(lead *domain.Lead) leadDocument {
	doc := leadDocument{
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   lead.Company,
		Stage:     string(lead.Stage),
		Status:    string(lead.Status),
		Notes:     lead.Notes,
		CreatedAt: lead.CreatedAt,
	}
	if oid, err := bson.ObjectIDFromHex(lead.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d *leadDocument) toDomain() domain.Lead {
	return domain.Lead{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Company:   d.Company,
		Stage:     domain.LeadStage(d.Stage),
		Status:    domain.LeadStatus(d.Status),
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
	}
}
