package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Response shapes returned by the API. Every stored ObjectID becomes its hex
// string form and every embedded list is declared with an explicit default:
// a missing or nil list projects to an empty slice, never to null. The
// projection functions below cannot fail for well-formed stored data.

// EventResponse is the denormalized client view of an Event aggregate.
type EventResponse struct {
	ID           string                `json:"_id"`
	Name         string                `json:"nombre"`
	Description  string                `json:"descripcion,omitempty"`
	StartDate    time.Time             `json:"fecha_inicio"`
	EndDate      *time.Time            `json:"fecha_fin,omitempty"`
	Status       EventStatus           `json:"estado"`
	Type         EventType             `json:"tipo_evento"`
	Attendees    int                   `json:"asistentes"`
	Responsibles []ResponsibleResponse `json:"responsables"`
	Facilities   []FacilityResponse    `json:"instalaciones"`
	Orgs         []OrgResponse         `json:"organizaciones_externas"`
	Evaluations  []EvaluationResponse  `json:"evaluaciones"`
}

// ResponsibleResponse is the client view of a responsible party entry.
type ResponsibleResponse struct {
	UserID    string   `json:"id_responsable"`
	Name      string   `json:"nombre"`
	AvalType  AvalType `json:"tipo_aval"`
	Principal bool     `json:"principal"`
}

// FacilityResponse is the client view of an assigned facility entry.
type FacilityResponse struct {
	FacilityID string `json:"id_instalacion"`
	Name       string `json:"nombre"`
	Capacity   int    `json:"capacidad"`
}

// OrgResponse is the client view of a participating organization entry.
type OrgResponse struct {
	OrgID           string           `json:"id_organizacion"`
	Name            string           `json:"nombre,omitempty"`
	Representatives []Representative `json:"representantes"`
	Certificate     string           `json:"certificado,omitempty"`
}

// EvaluationResponse is the client view of an evaluation entry.
type EvaluationResponse struct {
	ID            string           `json:"id_evaluacion"`
	SecretaryID   string           `json:"id_secretario"`
	EvaluatedAt   time.Time        `json:"fecha_evaluacion"`
	Justification string           `json:"justificacion,omitempty"`
	ApprovalDoc   string           `json:"acta_aprobacion,omitempty"`
	Status        EvaluationStatus `json:"estado"`
}

// NewEventResponse projects a stored event into its response shape.
func NewEventResponse(e *Event) EventResponse {
	resp := EventResponse{
		ID:           e.ID.Hex(),
		Name:         e.Name,
		Description:  e.Description,
		StartDate:    e.StartDate,
		EndDate:      e.EndDate,
		Status:       e.Status,
		Type:         e.Type,
		Attendees:    e.Attendees,
		Responsibles: make([]ResponsibleResponse, 0, len(e.Responsibles)),
		Facilities:   make([]FacilityResponse, 0, len(e.Facilities)),
		Orgs:         make([]OrgResponse, 0, len(e.Orgs)),
		Evaluations:  make([]EvaluationResponse, 0, len(e.Evaluations)),
	}
	for _, r := range e.Responsibles {
		resp.Responsibles = append(resp.Responsibles, newResponsibleResponse(r))
	}
	for _, f := range e.Facilities {
		resp.Facilities = append(resp.Facilities, newFacilityResponse(f))
	}
	for _, o := range e.Orgs {
		resp.Orgs = append(resp.Orgs, newOrgResponse(o))
	}
	for _, ev := range e.Evaluations {
		resp.Evaluations = append(resp.Evaluations, newEvaluationResponse(ev))
	}
	return resp
}

// NewEventResponses projects a slice of stored events, returning an empty
// slice rather than nil when there are none.
func NewEventResponses(events []Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, NewEventResponse(&events[i]))
	}
	return out
}

func newResponsibleResponse(r Responsible) ResponsibleResponse {
	return ResponsibleResponse{
		UserID:    r.UserID.Hex(),
		Name:      r.Name,
		AvalType:  r.AvalType,
		Principal: r.Principal,
	}
}

func newFacilityResponse(f EventFacility) FacilityResponse {
	return FacilityResponse{
		FacilityID: f.FacilityID.Hex(),
		Name:       f.Name,
		Capacity:   f.Capacity,
	}
}

func newOrgResponse(o ParticipatingOrg) OrgResponse {
	reps := o.Representatives
	if reps == nil {
		reps = []Representative{}
	}
	return OrgResponse{
		OrgID:           o.OrgID.Hex(),
		Name:            o.Name,
		Representatives: reps,
		Certificate:     o.Certificate,
	}
}

func newEvaluationResponse(ev Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:            ev.ID.Hex(),
		SecretaryID:   ev.SecretaryID.Hex(),
		EvaluatedAt:   ev.EvaluatedAt,
		Justification: ev.Justification,
		ApprovalDoc:   ev.ApprovalDoc,
		Status:        ev.Status,
	}
}

// OrganizerDoc is one row produced by the organizer lookup pipeline: the
// event's responsibles joined against the usuarios collection with one level
// of affiliation flattened.
type OrganizerDoc struct {
	ID          primitive.ObjectID `bson:"_id_org"`
	Name        string             `bson:"nombre"`
	Role        UserRole           `bson:"rol"`
	Affiliation string             `bson:"vinculacion"`
}

// OrganizerView is the client view of an event organizer.
type OrganizerView struct {
	ID          string   `json:"_id_org"`
	Name        string   `json:"nombre"`
	Role        UserRole `json:"rol"`
	Affiliation string   `json:"vinculacion"`
}

// NewOrganizerView projects an aggregation row into its response shape.
func NewOrganizerView(doc OrganizerDoc) OrganizerView {
	return OrganizerView{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Role:        doc.Role,
		Affiliation: doc.Affiliation,
	}
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges operations that return no entity, such as
// event deletion.
type MessageResponse struct {
	Message string `json:"message"`
}
