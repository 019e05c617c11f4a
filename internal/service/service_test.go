package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/unibienestar/eventos-api/internal/model"
	"github.com/unibienestar/eventos-api/internal/repository"
)

// ─── In-memory fakes ──────────────────────────────────────────────────────────

type fakeStore struct {
	events     map[primitive.ObjectID]*model.Event
	organizers []model.OrganizerDoc
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: make(map[primitive.ObjectID]*model.Event)}
}

func (s *fakeStore) Insert(_ context.Context, event *model.Event) (*model.Event, error) {
	event.ID = primitive.NewObjectID()
	stored := *event
	s.events[event.ID] = &stored
	return event, nil
}

func (s *fakeStore) FindAll(_ context.Context) ([]model.Event, error) {
	out := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, *e)
	}
	return out, nil
}

func (s *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (s *fakeStore) ApplyPatch(_ context.Context, id primitive.ObjectID, patch *model.EventPatch) (*model.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.StartDate != nil {
		e.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		e.EndDate = patch.EndDate
	}
	if patch.Attendees != nil {
		e.Attendees = *patch.Attendees
	}
	if patch.Responsibles != nil {
		e.Responsibles = *patch.Responsibles
	}
	if patch.Facilities != nil {
		e.Facilities = *patch.Facilities
	}
	if patch.Orgs != nil {
		e.Orgs = *patch.Orgs
	}
	copied := *e
	return &copied, nil
}

func (s *fakeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *fakeStore) AppendEvaluation(_ context.Context, id primitive.ObjectID, eval model.Evaluation, newStatus model.EventStatus) (*model.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e.Evaluations = append(e.Evaluations, eval)
	if newStatus != "" {
		e.Status = newStatus
	}
	copied := *e
	return &copied, nil
}

func (s *fakeStore) FindOrganizers(_ context.Context, _ primitive.ObjectID) ([]model.OrganizerDoc, error) {
	return s.organizers, nil
}

type fakeCatalog struct {
	users      map[primitive.ObjectID]*model.User
	facilities map[primitive.ObjectID]*model.Facility
	orgs       map[primitive.ObjectID]*model.ExternalOrg
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		users:      make(map[primitive.ObjectID]*model.User),
		facilities: make(map[primitive.ObjectID]*model.Facility),
		orgs:       make(map[primitive.ObjectID]*model.ExternalOrg),
	}
}

func (c *fakeCatalog) ResolveUser(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	if u, ok := c.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (c *fakeCatalog) ResolveFacility(_ context.Context, id primitive.ObjectID) (*model.Facility, error) {
	if f, ok := c.facilities[id]; ok {
		return f, nil
	}
	return nil, repository.ErrNotFound
}

func (c *fakeCatalog) ResolveOrganization(_ context.Context, id primitive.ObjectID) (*model.ExternalOrg, error) {
	if o, ok := c.orgs[id]; ok {
		return o, nil
	}
	return nil, repository.ErrNotFound
}

func (c *fakeCatalog) addUser(role model.UserRole) primitive.ObjectID {
	id := primitive.NewObjectID()
	c.users[id] = &model.User{ID: id, Name: "Usuario " + id.Hex()[:6], Role: role}
	return id
}

func (c *fakeCatalog) addFacility(name string, capacity int) primitive.ObjectID {
	id := primitive.NewObjectID()
	c.facilities[id] = &model.Facility{ID: id, Name: name, Capacity: capacity}
	return id
}

func (c *fakeCatalog) addOrg(name string) primitive.ObjectID {
	id := primitive.NewObjectID()
	c.orgs[id] = &model.ExternalOrg{ID: id, Name: name}
	return id
}

// ─── Fixtures ─────────────────────────────────────────────────────────────────

func newTestService() (*EventService, *fakeStore, *fakeCatalog) {
	store := newFakeStore()
	catalog := newFakeCatalog()
	return NewEventService(store, catalog), store, catalog
}

// validCreateRequest returns a request satisfying every business rule:
// one principal teacher responsible, one 300-seat facility, 150 attendees.
func validCreateRequest(catalog *fakeCatalog) *model.CreateEventRequest {
	teacherID := catalog.addUser(model.RoleTeacher)
	facilityID := catalog.addFacility("Auditorio Central", 300)
	end := time.Date(2026, 11, 11, 18, 0, 0, 0, time.UTC)
	return &model.CreateEventRequest{
		Name:      "Feria de Innovacion",
		StartDate: time.Date(2026, 11, 10, 9, 0, 0, 0, time.UTC),
		EndDate:   &end,
		Type:      model.EventAcademic,
		Responsibles: []model.Responsible{
			{UserID: teacherID, Name: "Laura Gomez", AvalType: model.AvalTeachingDirector, Principal: true},
		},
		Facilities: []model.EventFacility{
			{FacilityID: facilityID, Name: "Auditorio Central", Capacity: 300},
		},
		Attendees: 150,
	}
}

// ─── Create ───────────────────────────────────────────────────────────────────

func TestCreate_ForcesPendingStatus(t *testing.T) {
	svc, store, catalog := newTestService()

	resp, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)
	assert.Equal(t, model.EventPending, resp.Status)
	assert.Len(t, store.events, 1)

	req := validCreateRequest(catalog)
	req.Status = model.EventPending
	resp, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.EventPending, resp.Status)
}

func TestCreate_RejectsNonPendingInitialStatus(t *testing.T) {
	svc, store, catalog := newTestService()

	req := validCreateRequest(catalog)
	req.Status = model.EventApproved
	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInitialStatus)
	assert.Empty(t, store.events)
}

func TestCreate_StrictDateOrdering(t *testing.T) {
	svc, _, catalog := newTestService()

	req := validCreateRequest(catalog)
	equal := req.StartDate
	req.EndDate = &equal
	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidDateRange)

	req = validCreateRequest(catalog)
	before := req.StartDate.Add(-time.Hour)
	req.EndDate = &before
	_, err = svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidDateRange)

	// No end date skips the check entirely.
	req = validCreateRequest(catalog)
	req.EndDate = nil
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestCreate_NoResponsibles(t *testing.T) {
	svc, _, catalog := newTestService()

	req := validCreateRequest(catalog)
	req.Responsibles = nil
	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrNoResponsibles)
}

func TestCreate_PrincipalCount(t *testing.T) {
	svc, _, catalog := newTestService()

	req := validCreateRequest(catalog)
	req.Responsibles[0].Principal = false
	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrMissingPrincipal)

	req = validCreateRequest(catalog)
	second := model.Responsible{
		UserID:    catalog.addUser(model.RoleTeacher),
		Name:      "Pedro Ruiz",
		AvalType:  model.AvalProgramDirector,
		Principal: true,
	}
	req.Responsibles = append(req.Responsibles, second)
	_, err = svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrMultiplePrincipals)
}

func TestCreate_RoleConflict(t *testing.T) {
	svc, _, catalog := newTestService()

	req := validCreateRequest(catalog)
	req.Responsibles = append(req.Responsibles, model.Responsible{
		UserID:   catalog.addUser(model.RoleStudent),
		Name:     "Ana Torres",
		AvalType: model.AvalProgramDirector,
	})
	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrRoleConflict)
}

func TestCreate_UnknownResponsible(t *testing.T) {
	svc, _, catalog := newTestService()

	missing := primitive.NewObjectID()
	req := validCreateRequest(catalog)
	req.Responsibles[0].UserID = missing

	_, err := svc.Create(context.Background(), req)
	var refErr ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, KindUser, refErr.Kind)
	assert.Equal(t, missing.Hex(), refErr.ID)
}

func TestCreate_NoFacilities(t *testing.T) {
	svc, _, catalog := newTestService()

	req := validCreateRequest(catalog)
	req.Facilities = nil
	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrNoFacilities)
}

func TestCreate_UnknownFacility(t *testing.T) {
	svc, _, catalog := newTestService()

	missing := primitive.NewObjectID()
	req := validCreateRequest(catalog)
	req.Facilities[0].FacilityID = missing

	_, err := svc.Create(context.Background(), req)
	var refErr ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, KindFacility, refErr.Kind)
	assert.Equal(t, missing.Hex(), refErr.ID)
}

func TestCreate_CapacityExceeded(t *testing.T) {
	svc, store, catalog := newTestService()

	req := validCreateRequest(catalog)
	req.Attendees = 400

	_, err := svc.Create(context.Background(), req)
	var capErr CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "Auditorio Central", capErr.Facility)
	assert.Equal(t, 400, capErr.Requested)
	assert.Equal(t, 300, capErr.Available)

	// Nothing was persisted.
	assert.Empty(t, store.events)
}

func TestCreate_ZeroAttendeesSkipsCapacityCheck(t *testing.T) {
	svc, _, catalog := newTestService()

	req := validCreateRequest(catalog)
	req.Attendees = 0
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestCreate_UnknownOrganization(t *testing.T) {
	svc, _, catalog := newTestService()

	missing := primitive.NewObjectID()
	req := validCreateRequest(catalog)
	req.Orgs = []model.ParticipatingOrg{{OrgID: missing, Name: "Empresa ABC"}}

	_, err := svc.Create(context.Background(), req)
	var refErr ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, KindOrganization, refErr.Kind)
}

func TestCreate_WithKnownOrganization(t *testing.T) {
	svc, _, catalog := newTestService()

	orgID := catalog.addOrg("Empresa ABC")
	req := validCreateRequest(catalog)
	req.Orgs = []model.ParticipatingOrg{{
		OrgID: orgID,
		Name:  "Empresa ABC",
		Representatives: []model.Representative{
			{Name: "Carlos Lopez", Position: "Gerente", Legal: true},
		},
		Certificate: "certificado_abc.pdf",
	}}

	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Orgs, 1)
	assert.Equal(t, orgID.Hex(), resp.Orgs[0].OrgID)
}

// ─── Get / List ───────────────────────────────────────────────────────────────

func TestGet_InvalidID(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), "not-an-objectid")
	var idErr InvalidIDError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, KindEvent, idErr.Kind)
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGet_Idempotent(t *testing.T) {
	svc, _, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	first, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// ─── Update ───────────────────────────────────────────────────────────────────

func TestUpdate_RejectsNonPendingEvent(t *testing.T) {
	svc, store, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	oid, err := primitive.ObjectIDFromHex(created.ID)
	require.NoError(t, err)
	store.events[oid].Status = model.EventApproved

	desc := "nueva descripcion"
	_, err = svc.Update(context.Background(), created.ID, &model.EventPatch{Description: &desc})
	require.ErrorIs(t, err, ErrNotPending)
}

func TestUpdate_SparsePatchKeepsOtherFields(t *testing.T) {
	svc, _, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	desc := "x"
	updated, err := svc.Update(context.Background(), created.ID, &model.EventPatch{Description: &desc})
	require.NoError(t, err)

	assert.Equal(t, "x", updated.Description)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.StartDate, updated.StartDate)
	assert.Equal(t, created.Responsibles, updated.Responsibles)
	assert.Equal(t, created.Facilities, updated.Facilities)
	assert.Equal(t, created.Status, updated.Status)
}

func TestUpdate_NonStrictDateOrdering(t *testing.T) {
	svc, _, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	// Equal dates are accepted on update, unlike create.
	same := time.Date(2026, 11, 12, 10, 0, 0, 0, time.UTC)
	_, err = svc.Update(context.Background(), created.ID, &model.EventPatch{
		StartDate: &same,
		EndDate:   &same,
	})
	require.NoError(t, err)

	created2, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)
	start := same.Add(time.Hour)
	_, err = svc.Update(context.Background(), created2.ID, &model.EventPatch{
		StartDate: &start,
		EndDate:   &same,
	})
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestUpdate_CapacityUsesPatchAttendees(t *testing.T) {
	svc, _, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	smallID := catalog.addFacility("Salon 101", 40)
	facilities := []model.EventFacility{{FacilityID: smallID, Name: "Salon 101", Capacity: 40}}
	attendees := 120

	_, err = svc.Update(context.Background(), created.ID, &model.EventPatch{
		Facilities: &facilities,
		Attendees:  &attendees,
	})
	var capErr CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "Salon 101", capErr.Facility)
	assert.Equal(t, 120, capErr.Requested)
	assert.Equal(t, 40, capErr.Available)

	// Without an attendee count in the patch the capacity check is skipped.
	_, err = svc.Update(context.Background(), created.ID, &model.EventPatch{Facilities: &facilities})
	require.NoError(t, err)
}

func TestUpdate_ResponsiblesRechecked(t *testing.T) {
	svc, _, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	responsibles := []model.Responsible{
		{UserID: catalog.addUser(model.RoleTeacher), Name: "Laura Gomez", AvalType: model.AvalTeachingDirector, Principal: true},
		{UserID: catalog.addUser(model.RoleStudent), Name: "Ana Torres", AvalType: model.AvalProgramDirector, Principal: true},
	}
	_, err = svc.Update(context.Background(), created.ID, &model.EventPatch{Responsibles: &responsibles})
	require.ErrorIs(t, err, ErrMultiplePrincipals)

	responsibles[1].Principal = false
	_, err = svc.Update(context.Background(), created.ID, &model.EventPatch{Responsibles: &responsibles})
	require.ErrorIs(t, err, ErrRoleConflict)
}

// ─── Delete ───────────────────────────────────────────────────────────────────

func TestDelete_HasNoStateGuard(t *testing.T) {
	svc, store, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	oid, err := primitive.ObjectIDFromHex(created.ID)
	require.NoError(t, err)
	store.events[oid].Status = model.EventApproved

	resp, err := svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Contains(t, resp.Message, created.ID)
	assert.Empty(t, store.events)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDelete_InvalidID(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Delete(context.Background(), "zzz")
	var idErr InvalidIDError
	require.ErrorAs(t, err, &idErr)
}

// ─── Evaluations and status transitions ───────────────────────────────────────

func evaluationRequest(catalog *fakeCatalog, outcome model.EvaluationStatus) *model.CreateEvaluationRequest {
	return &model.CreateEvaluationRequest{
		SecretaryID:   catalog.addUser(model.RoleSecretary).Hex(),
		Justification: "revision completa",
		ApprovalDoc:   "acta-2026-001.pdf",
		Status:        outcome,
	}
}

func TestAddEvaluation_StatusTransitions(t *testing.T) {
	cases := []struct {
		outcome model.EvaluationStatus
		want    model.EventStatus
	}{
		{model.EvaluationApproved, model.EventApproved},
		{model.EvaluationRejected, model.EventRejected},
		{model.EvaluationPending, model.EventPending},
	}

	for _, tc := range cases {
		t.Run(string(tc.outcome), func(t *testing.T) {
			svc, _, catalog := newTestService()
			created, err := svc.Create(context.Background(), validCreateRequest(catalog))
			require.NoError(t, err)

			resp, err := svc.AddEvaluation(context.Background(), created.ID, evaluationRequest(catalog, tc.outcome))
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.Status)
			require.Len(t, resp.Evaluations, 1)
			assert.Equal(t, tc.outcome, resp.Evaluations[0].Status)
			assert.NotEmpty(t, resp.Evaluations[0].ID)
		})
	}
}

func TestAddEvaluation_AppendsAfterTerminalState(t *testing.T) {
	svc, _, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	resp, err := svc.AddEvaluation(context.Background(), created.ID, evaluationRequest(catalog, model.EvaluationApproved))
	require.NoError(t, err)
	assert.Equal(t, model.EventApproved, resp.Status)

	// The transition table has no terminal lock; a later rejection flips the
	// status and the list keeps growing.
	resp, err = svc.AddEvaluation(context.Background(), created.ID, evaluationRequest(catalog, model.EvaluationRejected))
	require.NoError(t, err)
	assert.Equal(t, model.EventRejected, resp.Status)
	assert.Len(t, resp.Evaluations, 2)
}

func TestAddEvaluation_InvalidSecretaryID(t *testing.T) {
	svc, _, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	req := evaluationRequest(catalog, model.EvaluationApproved)
	req.SecretaryID = "nope"
	_, err = svc.AddEvaluation(context.Background(), created.ID, req)
	var idErr InvalidIDError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, KindSecretary, idErr.Kind)
}

func TestAddEvaluation_UnknownSecretary(t *testing.T) {
	svc, _, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	req := evaluationRequest(catalog, model.EvaluationApproved)
	req.SecretaryID = primitive.NewObjectID().Hex()
	_, err = svc.AddEvaluation(context.Background(), created.ID, req)
	var refErr ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, KindSecretary, refErr.Kind)
}

func TestAddEvaluation_EventNotFound(t *testing.T) {
	svc, _, catalog := newTestService()

	req := evaluationRequest(catalog, model.EvaluationApproved)
	_, err := svc.AddEvaluation(context.Background(), primitive.NewObjectID().Hex(), req)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

// ─── Organizers ───────────────────────────────────────────────────────────────

func TestListOrganizers(t *testing.T) {
	svc, store, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	userID := primitive.NewObjectID()
	store.organizers = []model.OrganizerDoc{
		{ID: userID, Name: "Laura Gomez", Role: model.RoleTeacher, Affiliation: "Ingenieria de Sistemas"},
	}

	views, err := svc.ListOrganizers(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, userID.Hex(), views[0].ID)
	assert.Equal(t, "Ingenieria de Sistemas", views[0].Affiliation)
}

func TestListOrganizers_EmptyResult(t *testing.T) {
	svc, _, catalog := newTestService()

	created, err := svc.Create(context.Background(), validCreateRequest(catalog))
	require.NoError(t, err)

	_, err = svc.ListOrganizers(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrNoOrganizers)
}

func TestListOrganizers_EventNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListOrganizers(context.Background(), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, repository.ErrNotFound)
}
