// Package database provides MongoDB connection management for the event
// service. The client is created once at process start, injected into the
// repositories, and torn down on shutdown; there is no package-level handle.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used by the event core and the catalog it resolves
// against.
const (
	CollEvents       = "eventos"
	CollUsers        = "usuarios"
	CollFacilities   = "instalaciones"
	CollExternalOrgs = "organizaciones_externas"
	CollFaculties    = "facultades"
	CollAcademicUnit = "unidades_academicas"
	CollPrograms     = "programas"
)

// registeredCollections are ensured to exist on connect so that catalog
// lookups and the organizer aggregation never hit an unregistered namespace.
var registeredCollections = []string{
	CollEvents,
	CollUsers,
	CollFacilities,
	CollExternalOrgs,
	CollFaculties,
	CollAcademicUnit,
	CollPrograms,
}

// Mongo wraps the driver client and the application database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes the client, verifies the deployment is reachable and
// ensures the known collections are registered. Each call opens its own
// client and pool; close the returned handle when done.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	m := &Mongo{client: client, db: client.Database(dbName)}
	if err := m.ensureCollections(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}

// ensureCollections creates any registered collection that does not exist
// yet. Mongo creates collections lazily on first write; doing it eagerly
// keeps the catalog namespaces present for $lookup reads on a fresh
// database.
func (m *Mongo) ensureCollections(ctx context.Context) error {
	existing, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}
	for _, name := range registeredCollections {
		if present[name] {
			continue
		}
		if err := m.db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}
	return nil
}

// Collection returns a handle on a named collection of the application
// database.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}
