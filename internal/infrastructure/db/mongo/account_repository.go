package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/soundhub/user-service/internal/core/domain"
	"github.com/soundhub/user-service/internal/core/ports"
)

const collectionAccounts = "accounts"

// AccountRepository implements ports.AccountRepository using MongoDB.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

// Insert stores a new account. The identifier and timestamps are assigned
// here when the caller left them empty.
func (r *AccountRepository) Insert(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *a
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}
	// $addToSet and $pull need an array to operate on, never null.
	if doc.Following == nil {
		doc.Following = []string{}
	}
	if doc.LikedTracks == nil {
		doc.LikedTracks = []string{}
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindOne returns the first account matching filter.
func (r *AccountRepository) FindOne(ctx context.Context, filter ports.AccountFilter) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Account
	if err := r.col.FindOne(ctx, filterDocument(filter)).Decode(&a); err != nil {
		return nil, notFound(err)
	}
	a.FillEmptySets()
	return &a, nil
}

// Find returns every account matching filter, an empty slice when none do.
func (r *AccountRepository) Find(ctx context.Context, filter ports.AccountFilter) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filterDocument(filter))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var accounts []*domain.Account
	if err := cur.All(ctx, &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}
	for _, a := range accounts {
		a.FillEmptySets()
	}
	return accounts, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Account
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, notFound(err)
	}
	a.FillEmptySets()
	return &a, nil
}

// UpdateByID applies change in a single findAndModify and returns the
// document as it is after the update.
func (r *AccountRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, change ports.AccountChange) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a domain.Account
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, updateDocument(change), opts).Decode(&a)
	if err != nil {
		return nil, notFound(err)
	}
	a.FillEmptySets()
	return &a, nil
}

func (r *AccountRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Account
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, notFound(err)
	}
	a.FillEmptySets()
	return &a, nil
}

// EnsureIndexes creates the secondary indexes used by the lookups above.
// Email is deliberately not unique.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: domain.KeyRole, Value: 1}, {Key: domain.KeyArtistID, Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func filterDocument(f ports.AccountFilter) bson.M {
	filter := bson.M{}
	if f.Email != "" {
		filter["email"] = f.Email
	}
	if f.Role != "" {
		filter[domain.KeyRole] = string(f.Role)
	}
	if f.WithoutArtist {
		filter[domain.KeyArtistID] = bson.M{"$exists": false}
	}
	return filter
}

func updateDocument(c ports.AccountChange) bson.M {
	update := bson.M{}
	if len(c.Set) > 0 {
		set := bson.M{}
		for k, v := range c.Set {
			set[k] = v
		}
		update["$set"] = set
	}
	if len(c.AddToSet) > 0 {
		add := bson.M{}
		for k, v := range c.AddToSet {
			add[k] = v
		}
		update["$addToSet"] = add
	}
	if len(c.Pull) > 0 {
		pull := bson.M{}
		for k, v := range c.Pull {
			pull[k] = v
		}
		update["$pull"] = pull
	}
	return update
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrAccountNotFound
	}
	return err
}
