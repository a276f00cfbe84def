package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/soundhub/user-service/internal/core/domain"
)

const collectionArtists = "artists"

// ArtistRepository reads artist profiles written by the catalogue service.
type ArtistRepository struct {
	col *mongo.Collection
}

func NewArtistRepository(db *mongo.Database) *ArtistRepository {
	return &ArtistRepository{col: db.Collection(collectionArtists)}
}

func (r *ArtistRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Artist
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArtistNotFound
		}
		return nil, err
	}
	return &a, nil
}
