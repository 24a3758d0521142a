package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/estatehub/listings-api/internal/core/domain"
)

const collectionProperties = "properties"

// PropertyRepository persists listing records.
type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection(collectionProperties)}
}

type propertyDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	ProjectName   string             `bson:"project_name"`
	BuilderName   string             `bson:"builder_name"`
	Location      string             `bson:"location"`
	Price         float64            `bson:"price"`
	MainImage     string             `bson:"main_image"`
	GalleryImages []string           `bson:"gallery_images"`
	Description   string             `bson:"description"`
	Highlights    string             `bson:"highlights"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func fromDomain(p *domain.Property) propertyDoc {
	return propertyDoc{
		ProjectName:   p.ProjectName,
		BuilderName:   p.BuilderName,
		Location:      p.Location,
		Price:         p.Price,
		MainImage:     p.MainImage,
		GalleryImages: p.GalleryImages,
		Description:   p.Description,
		Highlights:    p.Highlights,
		CreatedAt:     p.CreatedAt,
	}
}

func (d propertyDoc) toDomain() *domain.Property {
	gallery := d.GalleryImages
	if gallery == nil {
		gallery = []string{}
	}
	return &domain.Property{
		ID:            d.ID.Hex(),
		ProjectName:   d.ProjectName,
		BuilderName:   d.BuilderName,
		Location:      d.Location,
		Price:         d.Price,
		MainImage:     d.MainImage,
		GalleryImages: gallery,
		Description:   d.Description,
		Highlights:    d.Highlights,
		CreatedAt:     d.CreatedAt,
	}
}

// Create inserts a new listing document, stamping created_at.
func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomain(p)
	doc.CreatedAt = time.Now().UTC()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert property: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPropertyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc propertyDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("find property: %w", err)
	}
	return doc.toDomain(), nil
}

// Find returns all listings matching filter in natural (insertion) order.
func (r *PropertyRepository) Find(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, buildFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("find properties: %w", err)
	}
	defer cur.Close(ctx)

	properties := []*domain.Property{}
	for cur.Next(ctx) {
		var doc propertyDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode property: %w", err)
		}
		properties = append(properties, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return properties, nil
}

// Replace overwrites the document for id with p. The stored created_at is
// carried in p by the service's read-modify-write cycle.
func (r *PropertyRepository) Replace(ctx context.Context, id string, p *domain.Property) (*domain.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPropertyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomain(p)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("replace property: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPropertyNotFound
	}

	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPropertyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes that back the filtered list queries.
func (r *PropertyRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: 1}}},
		{Keys: bson.D{{Key: "project_name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// buildFilter translates the optional, conjunctive search constraints into a
// MongoDB query. Substring matches are case-insensitive and regex-escaped.
func buildFilter(f domain.PropertyFilter) bson.M {
	q := bson.M{}

	if f.Location != "" {
		q["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}
	if f.ProjectName != "" {
		q["project_name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.ProjectName), Options: "i"}
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}

	return q
}
