package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/soundhub/user-service/internal/core/domain"
	"github.com/soundhub/user-service/internal/core/ports"
)

const testNS = "test.accounts"

func accountDoc(id primitive.ObjectID, email string, extra ...bson.E) bson.D {
	doc := bson.D{
		{Key: "_id", Value: id},
		{Key: "email", Value: email},
		{Key: "username", Value: "fan"},
		{Key: "role", Value: "user"},
		{Key: "following", Value: bson.A{"artist-1"}},
		{Key: "likedTracks", Value: bson.A{}},
	}
	return append(doc, extra...)
}

func TestAccountRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert assigns id and empty sets", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.Insert(context.Background(), &domain.Account{
			Email:    "fan@example.com",
			Username: "fan",
			Role:     domain.RoleUser,
		})
		if err != nil {
			mt.Fatalf("insert: %v", err)
		}
		if created.ID.IsZero() {
			mt.Fatal("expected generated id")
		}
		if created.CreatedAt.IsZero() || !created.UpdatedAt.Equal(created.CreatedAt) {
			mt.Errorf("expected timestamps to be set, got %v / %v", created.CreatedAt, created.UpdatedAt)
		}

		cmd := mt.GetStartedEvent().Command
		docs, err := cmd.Lookup("documents").Array().Values()
		if err != nil || len(docs) != 1 {
			mt.Fatalf("expected one inserted document, got %v (%v)", len(docs), err)
		}
		inserted := docs[0].Document()
		if inserted.Lookup("following").Type != bson.TypeArray {
			mt.Errorf("following must be stored as an array")
		}
		if inserted.Lookup("likedTracks").Type != bson.TypeArray {
			mt.Errorf("likedTracks must be stored as an array")
		}
		if _, err := inserted.LookupErr("artistId"); err == nil {
			mt.Errorf("artistId must be absent on insert")
		}
	})

	mt.Run("insert propagates duplicate key error", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Insert(context.Background(), &domain.Account{Email: "dup@example.com"})
		if !mongo.IsDuplicateKeyError(err) {
			mt.Fatalf("expected duplicate key error, got %v", err)
		}
	})

	mt.Run("find by id decodes document", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, accountDoc(id, "fan@example.com")))

		got, err := repo.FindByID(context.Background(), id)
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if got.ID != id || got.Email != "fan@example.com" {
			mt.Errorf("unexpected account: %+v", got)
		}
		if len(got.Following) != 1 || got.Following[0] != "artist-1" {
			mt.Errorf("unexpected following: %v", got.Following)
		}

		filterID := mt.GetStartedEvent().Command.Lookup("filter", "_id").ObjectID()
		if filterID != id {
			mt.Errorf("expected filter on %s, got %s", id.Hex(), filterID.Hex())
		}
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		if !errors.Is(err, domain.ErrAccountNotFound) {
			mt.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})

	mt.Run("documents without sets decode as empty sets", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		id := primitive.NewObjectID()
		legacy := bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "old@example.com"},
			{Key: "role", Value: "user"},
			{Key: "likedTracks", Value: nil},
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, legacy),
			mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, legacy),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: legacy}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: legacy}),
		)
		ctx := context.Background()

		byID, err := repo.FindByID(ctx, id)
		if err != nil {
			mt.Fatalf("find by id: %v", err)
		}
		listed, err := repo.Find(ctx, ports.AccountFilter{Role: domain.RoleUser})
		if err != nil || len(listed) != 1 {
			mt.Fatalf("find: %v (%d)", err, len(listed))
		}
		updated, err := repo.UpdateByID(ctx, id, ports.AccountChange{Set: map[string]any{"bio": "x"}})
		if err != nil {
			mt.Fatalf("update: %v", err)
		}
		removed, err := repo.DeleteByID(ctx, id)
		if err != nil {
			mt.Fatalf("delete: %v", err)
		}

		for name, a := range map[string]*domain.Account{"find by id": byID, "find": listed[0], "update": updated, "delete": removed} {
			if a.Following == nil || a.LikedTracks == nil {
				mt.Errorf("%s: expected non-nil empty sets, got %#v / %#v", name, a.Following, a.LikedTracks)
			}
		}
	})

	mt.Run("find one by email", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, accountDoc(id, "fan@example.com")))

		got, err := repo.FindOne(context.Background(), ports.AccountFilter{Email: "fan@example.com"})
		if err != nil {
			mt.Fatalf("find one: %v", err)
		}
		if got.ID != id {
			mt.Errorf("unexpected id %s", got.ID.Hex())
		}
		if email := mt.GetStartedEvent().Command.Lookup("filter", "email").StringValue(); email != "fan@example.com" {
			mt.Errorf("expected email filter, got %q", email)
		}
	})

	mt.Run("find bands without artist builds exists filter", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch,
			accountDoc(primitive.NewObjectID(), "a@example.com", bson.E{Key: "role", Value: "band"}),
			accountDoc(primitive.NewObjectID(), "b@example.com", bson.E{Key: "role", Value: "band"}),
		))

		got, err := repo.Find(context.Background(), ports.AccountFilter{Role: domain.RoleBand, WithoutArtist: true})
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if len(got) != 2 {
			mt.Fatalf("expected 2 accounts, got %d", len(got))
		}

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		if role := filter.Lookup("role").StringValue(); role != "band" {
			mt.Errorf("expected role filter band, got %q", role)
		}
		if exists := filter.Lookup("artistId", "$exists").Boolean(); exists {
			mt.Errorf("expected artistId $exists false")
		}
	})

	mt.Run("find with no match returns empty slice", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		got, err := repo.Find(context.Background(), ports.AccountFilter{Role: domain.RoleAdmin})
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if got == nil || len(got) != 0 {
			mt.Fatalf("expected empty non-nil slice, got %#v", got)
		}
	})

	mt.Run("update by id sends set operators", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		id := primitive.NewObjectID()
		now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{
			Key:   "value",
			Value: accountDoc(id, "fan@example.com", bson.E{Key: "updatedAt", Value: now}),
		}))

		got, err := repo.UpdateByID(context.Background(), id, ports.AccountChange{
			Set:      map[string]any{"updatedAt": now},
			AddToSet: map[string]string{"following": "artist-1"},
		})
		if err != nil {
			mt.Fatalf("update: %v", err)
		}
		if !got.UpdatedAt.Equal(now) {
			mt.Errorf("expected updatedAt %v, got %v", now, got.UpdatedAt)
		}

		cmd := mt.GetStartedEvent().Command
		if member := cmd.Lookup("update", "$addToSet", "following").StringValue(); member != "artist-1" {
			mt.Errorf("expected $addToSet following artist-1, got %q", member)
		}
		if _, err := cmd.LookupErr("update", "$pull"); err == nil {
			mt.Errorf("unexpected $pull in update")
		}
		if !cmd.Lookup("new").Boolean() {
			mt.Errorf("expected post-update document to be requested")
		}
	})

	mt.Run("update by id pull", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: accountDoc(id, "fan@example.com")}))

		if _, err := repo.UpdateByID(context.Background(), id, ports.AccountChange{
			Set:  map[string]any{"updatedAt": time.Now()},
			Pull: map[string]string{"likedTracks": "track-1"},
		}); err != nil {
			mt.Fatalf("update: %v", err)
		}

		cmd := mt.GetStartedEvent().Command
		if member := cmd.Lookup("update", "$pull", "likedTracks").StringValue(); member != "track-1" {
			mt.Errorf("expected $pull likedTracks track-1, got %q", member)
		}
	})

	mt.Run("update by id not found", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdateByID(context.Background(), primitive.NewObjectID(), ports.AccountChange{
			Set: map[string]any{"bio": "x"},
		})
		if !errors.Is(err, domain.ErrAccountNotFound) {
			mt.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})

	mt.Run("delete by id returns removed document", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: accountDoc(id, "gone@example.com")}))

		got, err := repo.DeleteByID(context.Background(), id)
		if err != nil {
			mt.Fatalf("delete: %v", err)
		}
		if got.Email != "gone@example.com" {
			mt.Errorf("unexpected removed account: %+v", got)
		}
		if !mt.GetStartedEvent().Command.Lookup("remove").Boolean() {
			mt.Errorf("expected findAndModify with remove")
		}
	})

	mt.Run("command errors propagate", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		if err == nil || errors.Is(err, domain.ErrAccountNotFound) {
			mt.Fatalf("expected raw command error, got %v", err)
		}
		var cmdErr mongo.CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Code != 13 {
			mt.Fatalf("expected CommandError code 13, got %v", err)
		}
	})
}

func TestArtistRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by id", func(mt *mtest.T) {
		repo := NewArtistRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.artists", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "The Band"},
			{Key: "genre", Value: bson.A{"shoegaze"}},
			{Key: "verified", Value: true},
		}))

		got, err := repo.FindByID(context.Background(), id)
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if got.Name != "The Band" || !got.Verified || len(got.Genre) != 1 {
			mt.Errorf("unexpected artist: %+v", got)
		}
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		repo := NewArtistRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.artists", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		if !errors.Is(err, domain.ErrArtistNotFound) {
			mt.Fatalf("expected ErrArtistNotFound, got %v", err)
		}
	})
}
