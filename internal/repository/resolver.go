package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/unibienestar/eventos-api/internal/database"
	"github.com/unibienestar/eventos-api/internal/model"
)

// CatalogResolver fetches the authoritative catalog documents that event
// payloads reference. It only reads; the event core never mutates the
// catalog.
type CatalogResolver struct {
	users      *mongo.Collection
	facilities *mongo.Collection
	orgs       *mongo.Collection
}

// NewCatalogResolver constructs a CatalogResolver.
func NewCatalogResolver(db *database.Mongo) *CatalogResolver {
	return &CatalogResolver{
		users:      db.Collection(database.CollUsers),
		facilities: db.Collection(database.CollFacilities),
		orgs:       db.Collection(database.CollExternalOrgs),
	}
}

// ResolveUser returns the user with the given id or ErrNotFound.
func (r *CatalogResolver) ResolveUser(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return &user, nil
}

// ResolveFacility returns the facility with the given id or ErrNotFound.
func (r *CatalogResolver) ResolveFacility(ctx context.Context, id primitive.ObjectID) (*model.Facility, error) {
	var facility model.Facility
	if err := r.facilities.FindOne(ctx, bson.M{"_id": id}).Decode(&facility); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve facility: %w", err)
	}
	return &facility, nil
}

// ResolveOrganization returns the external organization with the given id or
// ErrNotFound.
func (r *CatalogResolver) ResolveOrganization(ctx context.Context, id primitive.ObjectID) (*model.ExternalOrg, error) {
	var org model.ExternalOrg
	if err := r.orgs.FindOne(ctx, bson.M{"_id": id}).Decode(&org); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve organization: %w", err)
	}
	return &org, nil
}
