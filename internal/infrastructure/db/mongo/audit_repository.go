package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
)

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// Insert appends an entry to the admin_audit collection.
func (r *AuditRepository) Insert(ctx context.Context, entry domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	at := entry.At
	if at.IsZero() {
		at = time.Now()
	}
	doc := bson.M{
		"action":      entry.Action,
		"actor_id":    entry.ActorID,
		"target_id":   entry.TargetID,
		"at":          at.UTC(),
		"recorded_at": time.Now().UTC(),
	}

	_, err := r.db.Collection(collectionAudit).InsertOne(ctx, doc)
	return err
}
