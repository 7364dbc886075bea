package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// AccountRepository implements ports.AccountRepository using MongoDB.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone"`
	ProfileType  string             `bson:"profile_type"`
	Institute    string             `bson:"institute,omitempty"`
	Course       string             `bson:"course,omitempty"`
	Company      string             `bson:"company,omitempty"`
	Position     string             `bson:"position,omitempty"`
	LocalAddress string             `bson:"local_address,omitempty"`
	City         string             `bson:"city,omitempty"`
	Zip          string             `bson:"zip,omitempty"`
	State        string             `bson:"state,omitempty"`
	Country      string             `bson:"country,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	IsAdmin      bool               `bson:"is_admin"`
	IsVerified   bool               `bson:"is_verified"`

	VerificationToken   string `bson:"verification_token,omitempty"`
	ForgetPasswordToken string `bson:"forget_password_token,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func fromAccount(a *domain.Account) mongoAccount {
	return mongoAccount{
		Name:                a.Name,
		Email:               a.Email,
		Phone:               a.Phone,
		ProfileType:         string(a.ProfileType),
		Institute:           a.Institute,
		Course:              a.Course,
		Company:             a.Company,
		Position:            a.Position,
		LocalAddress:        a.LocalAddress,
		City:                a.City,
		Zip:                 a.Zip,
		State:               a.State,
		Country:             a.Country,
		PasswordHash:        a.PasswordHash,
		IsAdmin:             a.IsAdmin,
		IsVerified:          a.IsVerified,
		VerificationToken:   a.VerificationToken,
		ForgetPasswordToken: a.ForgetPasswordToken,
		CreatedAt:           a.CreatedAt.UTC(),
		UpdatedAt:           a.UpdatedAt.UTC(),
	}
}

func (m mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		ProfileType: domain.ProfileType(m.ProfileType),
		Profile: domain.Profile{
			Institute:    m.Institute,
			Course:       m.Course,
			Company:      m.Company,
			Position:     m.Position,
			LocalAddress: m.LocalAddress,
			City:         m.City,
			Zip:          m.Zip,
			State:        m.State,
			Country:      m.Country,
		},
		PasswordHash:        m.PasswordHash,
		IsAdmin:             m.IsAdmin,
		IsVerified:          m.IsVerified,
		VerificationToken:   m.VerificationToken,
		ForgetPasswordToken: m.ForgetPasswordToken,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromAccount(a)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert account: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, u domain.ProfileUpdate) (*domain.Account, error) {
	set := profileUpdateSet(u)
	set["updated_at"] = time.Now().UTC()
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	}})
}

func (r *AccountRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.Account, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"is_admin":   isAdmin,
		"updated_at": time.Now().UTC(),
	}})
}

func (r *AccountRepository) SetVerificationToken(ctx context.Context, id, token string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"verification_token": token}})
}

// ConsumeVerificationToken matches on the stored token so a replayed or
// superseded token finds no document.
func (r *AccountRepository) ConsumeVerificationToken(ctx context.Context, id, token string) error {
	return r.consume(ctx, id, "verification_token", token, bson.M{"is_verified": true})
}

func (r *AccountRepository) SetPasswordResetToken(ctx context.Context, id, token string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"forget_password_token": token}})
}

func (r *AccountRepository) ConsumePasswordResetToken(ctx context.Context, id, token, passwordHash string) error {
	return r.consume(ctx, id, "forget_password_token", token, bson.M{"password_hash": passwordHash})
}

// EnsureIndexes creates the unique email index.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *AccountRepository) consume(ctx context.Context, id, field, token string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || token == "" {
		return domain.ErrTokenInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set["updated_at"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, field: token},
		bson.M{"$set": set, "$unset": bson.M{field: ""}},
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTokenInvalid
	}
	return nil
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// profileUpdateSet maps the non-nil fields of u to their document keys.
func profileUpdateSet(u domain.ProfileUpdate) bson.M {
	set := bson.M{}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	put("name", u.Name)
	put("phone", u.Phone)
	if u.ProfileType != nil {
		set["profile_type"] = string(*u.ProfileType)
	}
	put("institute", u.Institute)
	put("course", u.Course)
	put("company", u.Company)
	put("position", u.Position)
	put("local_address", u.LocalAddress)
	put("city", u.City)
	put("zip", u.Zip)
	put("state", u.State)
	put("country", u.Country)
	return set
}
