package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// LeadRepository implements ports.LeadRepository using MongoDB. Each form
// type lives in its own collection.
type LeadRepository struct {
	db *mongo.Database
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) InsertContact(ctx context.Context, c *domain.Contact) error {
	id, err := r.insert(ctx, collectionContacts, bson.M{
		"first_name":   c.FirstName,
		"last_name":    c.LastName,
		"email":        c.Email,
		"phone":        c.Phone,
		"college_name": c.CollegeName,
		"message":      c.Message,
		"created_at":   c.CreatedAt.UTC(),
	})
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *LeadRepository) InsertEnrollment(ctx context.Context, e *domain.Enrollment) error {
	id, err := r.insert(ctx, collectionEnrollments, bson.M{
		"full_name":  e.FullName,
		"email":      e.Email,
		"phone":      e.Phone,
		"course":     e.Course,
		"created_at": e.CreatedAt.UTC(),
	})
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *LeadRepository) InsertInternship(ctx context.Context, i *domain.Internship) error {
	id, err := r.insert(ctx, collectionInternships, bson.M{
		"full_name":  i.FullName,
		"email":      i.Email,
		"phone":      i.Phone,
		"college":    i.College,
		"course":     i.Course,
		"created_at": i.CreatedAt.UTC(),
	})
	if err != nil {
		return err
	}
	i.ID = id
	return nil
}

func (r *LeadRepository) insert(ctx context.Context, collection string, doc bson.M) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return "", nil
}
