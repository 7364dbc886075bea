package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// AssessmentRepository implements ports.AssessmentRepository using MongoDB.
type AssessmentRepository struct {
	col *mongo.Collection
}

func NewAssessmentRepository(db *mongo.Database) *AssessmentRepository {
	return &AssessmentRepository{col: db.Collection(collectionAssessments)}
}

type mongoAssessment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AccountID primitive.ObjectID `bson:"account_id"`
	Name      string             `bson:"name"`
	Duration  string             `bson:"duration"`
	Score     string             `bson:"score"`
	Format    string             `bson:"format"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (m mongoAssessment) toDomain() *domain.Assessment {
	return &domain.Assessment{
		ID:        m.ID.Hex(),
		AccountID: m.AccountID.Hex(),
		Name:      m.Name,
		Duration:  m.Duration,
		Score:     m.Score,
		Format:    m.Format,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// mongoAssessmentOwner is the projection produced by the owner $lookup.
type mongoAssessmentOwner struct {
	mongoAssessment `bson:",inline"`
	Owner           *struct {
		ID          primitive.ObjectID `bson:"_id"`
		Name        string             `bson:"name"`
		Email       string             `bson:"email"`
		Phone       string             `bson:"phone"`
		ProfileType string             `bson:"profile_type"`
		Company     string             `bson:"company"`
		Institute   string             `bson:"institute"`
	} `bson:"owner,omitempty"`
}

func (r *AssessmentRepository) Create(ctx context.Context, a *domain.Assessment) (*domain.Assessment, error) {
	accountID, err := primitive.ObjectIDFromHex(a.AccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: account id", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAssessment{
		AccountID: accountID,
		Name:      a.Name,
		Duration:  a.Duration,
		Score:     a.Score,
		Format:    a.Format,
		CreatedAt: a.CreatedAt.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert assessment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *AssessmentRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Assessment, error) {
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return []*domain.Assessment{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"account_id": oid},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAssessment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode assessments: %w", err)
	}

	out := make([]*domain.Assessment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// ListWithOwners joins every assessment with the public fields of its owner.
// Assessments whose owner no longer exists are returned without one.
func (r *AssessmentRepository) ListWithOwners(ctx context.Context) ([]*domain.AssessmentWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionAccounts},
			{Key: "localField", Value: "account_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "owner.password_hash", Value: 0},
			{Key: "owner.verification_token", Value: 0},
			{Key: "owner.forget_password_token", Value: 0},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate assessments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAssessmentOwner
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode assessments: %w", err)
	}

	out := make([]*domain.AssessmentWithOwner, 0, len(docs))
	for _, d := range docs {
		item := &domain.AssessmentWithOwner{Assessment: *d.toDomain()}
		if d.Owner != nil {
			item.Owner = &domain.AssessmentOwner{
				ID:          d.Owner.ID.Hex(),
				Name:        d.Owner.Name,
				Email:       d.Owner.Email,
				Phone:       d.Owner.Phone,
				ProfileType: domain.ProfileType(d.Owner.ProfileType),
				Company:     d.Owner.Company,
				Institute:   d.Owner.Institute,
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// EnsureIndexes creates the per-account lookup index.
func (r *AssessmentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
