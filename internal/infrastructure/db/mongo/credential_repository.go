package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

const credentialCollection = "login_credentials"

// CredentialRepository implements ports.CredentialRepository using MongoDB.
type CredentialRepository struct {
	coll *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{coll: db.Collection(credentialCollection)}
}

type mongoCredential struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Username      string             `bson:"username"`
	PasswordHash  string             `bson:"password_hash"`
	Role          string             `bson:"role"`
	UserEmail     string             `bson:"user_email"`
	Status        string             `bson:"status"`
	LoginAttempts int                `bson:"login_attempts"`
	LockedUntil   *time.Time         `bson:"locked_until,omitempty"`
	LastLogin     *time.Time         `bson:"last_login,omitempty"`
}

func (mc mongoCredential) toDomain() *domain.Credential {
	return &domain.Credential{
		ID:            mc.ID.Hex(),
		Username:      mc.Username,
		PasswordHash:  mc.PasswordHash,
		Role:          domain.Role(mc.Role),
		UserEmail:     mc.UserEmail,
		Status:        domain.CredentialStatus(mc.Status),
		LoginAttempts: mc.LoginAttempts,
		LockedUntil:   utcPtr(mc.LockedUntil),
		LastLogin:     utcPtr(mc.LastLogin),
	}
}

// FindActiveByUsername returns the active credential for username.
func (r *CredentialRepository) FindActiveByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"username": username, "status": string(domain.CredentialActive)}

	var mc mongoCredential
	if err := r.coll.FindOne(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return mc.toDomain(), nil
}

// RecordLogin applies a partial login update. Only last_login,
// login_attempts and locked_until are ever written.
func (r *CredentialRepository) RecordLogin(ctx context.Context, id string, update domain.LoginUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("record login: %w", domain.ErrCredentialNotFound)
	}

	doc := loginUpdateDoc(update)
	if len(doc) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, doc)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("record login: %w", domain.ErrCredentialNotFound)
	}
	return nil
}

// EnsureIndexes creates the lookup index on the credentials collection.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "status", Value: 1}},
	})
	return err
}

// loginUpdateDoc builds the update document for RecordLogin. ClearLock is
// ignored when a new lock is being set.
func loginUpdateDoc(update domain.LoginUpdate) bson.M {
	set := bson.M{}
	if update.LastLogin != nil {
		set["last_login"] = update.LastLogin.UTC()
	}
	if update.LoginAttempts != nil {
		set["login_attempts"] = *update.LoginAttempts
	}
	if update.LockedUntil != nil {
		set["locked_until"] = update.LockedUntil.UTC()
	}

	doc := bson.M{}
	if len(set) > 0 {
		doc["$set"] = set
	}
	if update.ClearLock && update.LockedUntil == nil {
		doc["$unset"] = bson.M{"locked_until": ""}
	}
	return doc
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
