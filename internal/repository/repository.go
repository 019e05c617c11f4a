// Package repository implements all MongoDB access for the event service.
// It uses the official driver directly (no ODM); the Event aggregate is
// stored as a single document with its sub-collections embedded, so no
// cross-collection transaction coordination is needed.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unibienestar/eventos-api/internal/database"
	"github.com/unibienestar/eventos-api/internal/model"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// EventRepository handles persistence for the Event aggregate.
type EventRepository struct {
	events *mongo.Collection
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *database.Mongo) *EventRepository {
	return &EventRepository{events: db.Collection(database.CollEvents)}
}

// Insert stores a new event document and returns it with its generated id.
func (r *EventRepository) Insert(ctx context.Context, event *model.Event) (*model.Event, error) {
	res, err := r.events.InsertOne(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid
	}
	return event, nil
}

// FindAll returns every stored event.
func (r *EventRepository) FindAll(ctx context.Context) ([]model.Event, error) {
	cursor, err := r.events.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []model.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// FindByID returns a single event or ErrNotFound.
func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error) {
	var event model.Event
	err := r.events.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

// ApplyPatch merges the non-nil fields of the patch into the stored document
// and returns the updated event. Absent fields keep their prior values.
func (r *EventRepository) ApplyPatch(ctx context.Context, id primitive.ObjectID, patch *model.EventPatch) (*model.Event, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["nombre"] = *patch.Name
	}
	if patch.Description != nil {
		set["descripcion"] = *patch.Description
	}
	if patch.StartDate != nil {
		set["fecha_inicio"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		set["fecha_fin"] = *patch.EndDate
	}
	if patch.Attendees != nil {
		set["asistentes"] = *patch.Attendees
	}
	if patch.Responsibles != nil {
		set["responsables"] = *patch.Responsibles
	}
	if patch.Facilities != nil {
		set["instalaciones"] = *patch.Facilities
	}
	if patch.Orgs != nil {
		set["organizaciones_externas"] = *patch.Orgs
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var event model.Event
	err := r.events.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("patch event: %w", err)
	}
	return &event, nil
}

// Delete removes an event document outright. There is no tombstone.
func (r *EventRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.events.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendEvaluation pushes the evaluation onto the embedded list and, when
// newStatus is non-empty, applies the resulting status transition in the
// same write. It returns the updated event.
func (r *EventRepository) AppendEvaluation(ctx context.Context, id primitive.ObjectID, eval model.Evaluation, newStatus model.EventStatus) (*model.Event, error) {
	update := bson.M{"$push": bson.M{"evaluaciones": eval}}
	if newStatus != "" {
		update["$set"] = bson.M{"estado": newStatus}
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var event model.Event
	err := r.events.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("append evaluation: %w", err)
	}
	return &event, nil
}

// FindOrganizers joins the event's responsibles against the usuarios
// collection and flattens one level of affiliation, mirroring the read used
// by GET /eventos/{id}/responsables.
func (r *EventRepository) FindOrganizers(ctx context.Context, id primitive.ObjectID) ([]model.OrganizerDoc, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.CollUsers,
			"localField":   "responsables.id_responsable",
			"foreignField": "_id",
			"as":           "organizador",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$organizador"}}},
		{{Key: "$unwind", Value: bson.M{"path": "$organizador.vinculacion"}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"_id_org":     "$organizador._id",
			"nombre":      "$organizador.nombre",
			"rol":         "$organizador.rol",
			"vinculacion": "$organizador.vinculacion.nombre",
		}}},
	}

	cursor, err := r.events.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate organizers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []model.OrganizerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode organizers: %w", err)
	}
	return docs, nil
}
