// Package service implements the event validation engine, the evaluation
// state machine and the orchestration between HTTP handlers and the
// repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/unibienestar/eventos-api/internal/model"
	"github.com/unibienestar/eventos-api/internal/repository"
)

// EventStore is the persistence contract for the Event aggregate.
// *repository.EventRepository satisfies it.
type EventStore interface {
	Insert(ctx context.Context, event *model.Event) (*model.Event, error)
	FindAll(ctx context.Context) ([]model.Event, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error)
	ApplyPatch(ctx context.Context, id primitive.ObjectID, patch *model.EventPatch) (*model.Event, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AppendEvaluation(ctx context.Context, id primitive.ObjectID, eval model.Evaluation, newStatus model.EventStatus) (*model.Event, error)
	FindOrganizers(ctx context.Context, id primitive.ObjectID) ([]model.OrganizerDoc, error)
}

// Resolver fetches catalog documents referenced by event payloads.
// *repository.CatalogResolver satisfies it.
type Resolver interface {
	ResolveUser(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	ResolveFacility(ctx context.Context, id primitive.ObjectID) (*model.Facility, error)
	ResolveOrganization(ctx context.Context, id primitive.ObjectID) (*model.ExternalOrg, error)
}

// EventService orchestrates event-related business operations.
type EventService struct {
	store   EventStore
	catalog Resolver
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(store EventStore, catalog Resolver) *EventService {
	return &EventService{store: store, catalog: catalog}
}

// Create validates the proposed event against every business rule and
// persists it with status forced to pending. Rules are checked in a fixed
// order and the first violation is surfaced.
func (s *EventService) Create(ctx context.Context, req *model.CreateEventRequest) (model.EventResponse, error) {
	// 1. Date ordering, strict when an end date is given.
	if req.EndDate != nil && !req.StartDate.Before(*req.EndDate) {
		return model.EventResponse{}, ErrInvalidDateRange
	}

	// 2. Initial status is always pending; empty defaults to it.
	if req.Status != "" && req.Status != model.EventPending {
		return model.EventResponse{}, ErrInvalidInitialStatus
	}

	// 3-4. Responsible parties.
	if len(req.Responsibles) == 0 {
		return model.EventResponse{}, ErrNoResponsibles
	}
	if err := s.validateResponsibles(ctx, req.Responsibles); err != nil {
		return model.EventResponse{}, err
	}

	// 5. Facilities and capacity.
	if len(req.Facilities) == 0 {
		return model.EventResponse{}, ErrNoFacilities
	}
	if err := s.validateFacilities(ctx, req.Facilities, req.Attendees); err != nil {
		return model.EventResponse{}, err
	}

	// 6. External organizations.
	if err := s.validateOrgs(ctx, req.Orgs); err != nil {
		return model.EventResponse{}, err
	}

	event := &model.Event{
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       model.EventPending,
		Type:         req.Type,
		Attendees:    req.Attendees,
		Responsibles: req.Responsibles,
		Facilities:   req.Facilities,
		Orgs:         req.Orgs,
		Evaluations:  []model.Evaluation{},
	}

	stored, err := s.store.Insert(ctx, event)
	if err != nil {
		return model.EventResponse{}, fmt.Errorf("create event: %w", err)
	}
	return model.NewEventResponse(stored), nil
}

// List returns all events in their response shape.
func (s *EventService) List(ctx context.Context) ([]model.EventResponse, error) {
	events, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return model.NewEventResponses(events), nil
}

// Get returns a single event by its id.
func (s *EventService) Get(ctx context.Context, id string) (model.EventResponse, error) {
	oid, err := parseID(id, KindEvent)
	if err != nil {
		return model.EventResponse{}, err
	}
	event, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return model.EventResponse{}, err
	}
	return model.NewEventResponse(event), nil
}

// Update applies a sparse patch to a pending event. Present fields are
// re-validated with the same rules as creation, except that the date
// ordering is non-strict; absent fields keep their stored values.
func (s *EventService) Update(ctx context.Context, id string, patch *model.EventPatch) (model.EventResponse, error) {
	oid, err := parseID(id, KindEvent)
	if err != nil {
		return model.EventResponse{}, err
	}

	event, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return model.EventResponse{}, err
	}

	// Updates are only allowed while the event is pending; no field-level
	// override exists.
	if event.Status != model.EventPending {
		return model.EventResponse{}, ErrNotPending
	}

	// Non-strict ordering, checked only when the patch carries both dates.
	if patch.StartDate != nil && patch.EndDate != nil && patch.StartDate.After(*patch.EndDate) {
		return model.EventResponse{}, ErrInvalidDateRange
	}

	if patch.Responsibles != nil {
		if err := s.validateResponsibles(ctx, *patch.Responsibles); err != nil {
			return model.EventResponse{}, err
		}
	}

	if patch.Facilities != nil {
		// Capacity is checked against the patch's attendee count, not the
		// stored one.
		attendees := 0
		if patch.Attendees != nil {
			attendees = *patch.Attendees
		}
		if err := s.validateFacilities(ctx, *patch.Facilities, attendees); err != nil {
			return model.EventResponse{}, err
		}
	}

	if patch.Orgs != nil {
		if err := s.validateOrgs(ctx, *patch.Orgs); err != nil {
			return model.EventResponse{}, err
		}
	}

	updated, err := s.store.ApplyPatch(ctx, oid, patch)
	if err != nil {
		return model.EventResponse{}, err
	}
	return model.NewEventResponse(updated), nil
}

// Delete removes an event outright. Unlike update there is no pending-only
// guard; existence is the only precondition.
func (s *EventService) Delete(ctx context.Context, id string) (model.MessageResponse, error) {
	oid, err := parseID(id, KindEvent)
	if err != nil {
		return model.MessageResponse{}, err
	}
	if err := s.store.Delete(ctx, oid); err != nil {
		return model.MessageResponse{}, err
	}
	return model.MessageResponse{
		Message: fmt.Sprintf("Evento con ID %s eliminado correctamente.", id),
	}, nil
}

// AddEvaluation appends a secretary's evaluation to the event and applies
// the status transition its outcome dictates: approved and rejected map the
// event to the same status, pending leaves it untouched. The append is
// unconditional; terminal states do not lock out further evaluations.
func (s *EventService) AddEvaluation(ctx context.Context, id string, req *model.CreateEvaluationRequest) (model.EventResponse, error) {
	oid, err := parseID(id, KindEvent)
	if err != nil {
		return model.EventResponse{}, err
	}
	secretaryID, err := parseID(req.SecretaryID, KindSecretary)
	if err != nil {
		return model.EventResponse{}, err
	}

	if _, err := s.store.FindByID(ctx, oid); err != nil {
		return model.EventResponse{}, err
	}
	if _, err := s.catalog.ResolveUser(ctx, secretaryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.EventResponse{}, ReferenceNotFoundError{Kind: KindSecretary, ID: req.SecretaryID}
		}
		return model.EventResponse{}, fmt.Errorf("resolve secretary: %w", err)
	}

	eval := model.Evaluation{
		ID:            primitive.NewObjectID(),
		SecretaryID:   secretaryID,
		EvaluatedAt:   time.Now().UTC(),
		Justification: req.Justification,
		ApprovalDoc:   req.ApprovalDoc,
		Status:        req.Status,
	}

	var newStatus model.EventStatus
	switch req.Status {
	case model.EvaluationApproved:
		newStatus = model.EventApproved
	case model.EvaluationRejected:
		newStatus = model.EventRejected
	}

	updated, err := s.store.AppendEvaluation(ctx, oid, eval, newStatus)
	if err != nil {
		return model.EventResponse{}, err
	}
	return model.NewEventResponse(updated), nil
}

// ListOrganizers returns the event's responsibles joined with their user
// records, one row per flattened affiliation.
func (s *EventService) ListOrganizers(ctx context.Context, id string) ([]model.OrganizerView, error) {
	oid, err := parseID(id, KindEvent)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindByID(ctx, oid); err != nil {
		return nil, err
	}

	docs, err := s.store.FindOrganizers(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoOrganizers
	}

	views := make([]model.OrganizerView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, model.NewOrganizerView(doc))
	}
	return views, nil
}

// validateResponsibles enforces the exactly-one-principal invariant,
// resolves every referenced user and rejects role-heterogeneous lists.
func (s *EventService) validateResponsibles(ctx context.Context, responsibles []model.Responsible) error {
	principals := 0
	for _, r := range responsibles {
		if r.Principal {
			principals++
		}
	}
	if principals == 0 {
		return ErrMissingPrincipal
	}
	if principals > 1 {
		return ErrMultiplePrincipals
	}

	roles := make(map[model.UserRole]bool)
	for _, r := range responsibles {
		user, err := s.catalog.ResolveUser(ctx, r.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ReferenceNotFoundError{Kind: KindUser, ID: r.UserID.Hex()}
			}
			return fmt.Errorf("resolve responsible: %w", err)
		}
		roles[user.Role] = true
	}
	if roles[model.RoleTeacher] && roles[model.RoleStudent] {
		return ErrRoleConflict
	}
	return nil
}

// validateFacilities resolves every assigned facility and, when an attendee
// count is given, checks it against the catalog capacity of each one.
func (s *EventService) validateFacilities(ctx context.Context, facilities []model.EventFacility, attendees int) error {
	for _, f := range facilities {
		facility, err := s.catalog.ResolveFacility(ctx, f.FacilityID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ReferenceNotFoundError{Kind: KindFacility, ID: f.FacilityID.Hex()}
			}
			return fmt.Errorf("resolve facility: %w", err)
		}
		if attendees > 0 && facility.Capacity < attendees {
			name := f.Name
			if name == "" {
				name = facility.Name
			}
			return CapacityError{Facility: name, Requested: attendees, Available: facility.Capacity}
		}
	}
	return nil
}

// validateOrgs resolves every referenced external organization.
func (s *EventService) validateOrgs(ctx context.Context, orgs []model.ParticipatingOrg) error {
	for _, o := range orgs {
		if _, err := s.catalog.ResolveOrganization(ctx, o.OrgID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ReferenceNotFoundError{Kind: KindOrganization, ID: o.OrgID.Hex()}
			}
			return fmt.Errorf("resolve organization: %w", err)
		}
	}
	return nil
}

// parseID converts a hex identifier into an ObjectID, distinguishing a
// malformed id from a lookup miss.
func parseID(id, kind string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, InvalidIDError{Kind: kind, ID: id}
	}
	return oid, nil
}
