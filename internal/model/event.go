// Package model defines the core domain types for the university event
// management system: the Event aggregate with its embedded value objects,
// the catalog documents they reference, and the request/response shapes.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventPending  EventStatus = "pendiente"
	EventApproved EventStatus = "aprobado"
	EventRejected EventStatus = "rechazado"
)

// EventType classifies an event as recreational or academic.
type EventType string

const (
	EventRecreational EventType = "ludico"
	EventAcademic     EventType = "academico"
)

// AvalType is the organizational capacity under which a responsible party
// backs an event.
type AvalType string

const (
	AvalTeachingDirector AvalType = "director_docencia"
	AvalProgramDirector  AvalType = "director_programa"
)

// EvaluationStatus is the outcome recorded by an evaluating secretary.
type EvaluationStatus string

const (
	EvaluationApproved EvaluationStatus = "aprobado"
	EvaluationRejected EvaluationStatus = "rechazado"
	EvaluationPending  EvaluationStatus = "pendiente"
)

// Event is the aggregate root stored in the "eventos" collection. The four
// embedded lists are value objects owned by the event: they are copied from
// their source documents at association time and have no lifecycle of their
// own.
type Event struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"nombre" json:"nombre"`
	Description  string             `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	StartDate    time.Time          `bson:"fecha_inicio" json:"fecha_inicio"`
	EndDate      *time.Time         `bson:"fecha_fin,omitempty" json:"fecha_fin,omitempty"`
	Status       EventStatus        `bson:"estado" json:"estado"`
	Type         EventType          `bson:"tipo_evento" json:"tipo_evento"`
	Attendees    int                `bson:"asistentes,omitempty" json:"asistentes,omitempty"`
	Responsibles []Responsible      `bson:"responsables" json:"responsables"`
	Facilities   []EventFacility    `bson:"instalaciones" json:"instalaciones"`
	Orgs         []ParticipatingOrg `bson:"organizaciones_externas,omitempty" json:"organizaciones_externas,omitempty"`
	Evaluations  []Evaluation       `bson:"evaluaciones" json:"evaluaciones"`
}

// Responsible is a user vouching for the event. Exactly one entry per event
// carries Principal=true.
type Responsible struct {
	UserID    primitive.ObjectID `bson:"id_responsable" json:"id_responsable"`
	Name      string             `bson:"nombre" json:"nombre"`
	AvalType  AvalType           `bson:"tipo_aval" json:"tipo_aval"`
	Principal bool               `bson:"principal" json:"principal"`
}

// EventFacility is a venue assigned to the event. Capacity is copied from the
// facility catalog at assignment time and is not live-synced afterwards.
type EventFacility struct {
	FacilityID primitive.ObjectID `bson:"id_instalacion" json:"id_instalacion"`
	Name       string             `bson:"nombre" json:"nombre"`
	Location   string             `bson:"ubicacion,omitempty" json:"ubicacion,omitempty"`
	Capacity   int                `bson:"capacidad" json:"capacidad"`
	Type       FacilityType       `bson:"tipo,omitempty" json:"tipo,omitempty"`
}

// ParticipatingOrg is an external organization taking part in the event.
type ParticipatingOrg struct {
	OrgID           primitive.ObjectID `bson:"id_organizacion" json:"id_organizacion"`
	Name            string             `bson:"nombre,omitempty" json:"nombre,omitempty"`
	Representatives []Representative   `bson:"representantes" json:"representantes"`
	Certificate     string             `bson:"certificado,omitempty" json:"certificado,omitempty"`
}

// Representative is a legal or operational delegate of a participating
// organization.
type Representative struct {
	Name     string `bson:"nombre" json:"nombre"`
	Position string `bson:"cargo,omitempty" json:"cargo,omitempty"`
	Legal    bool   `bson:"legal,omitempty" json:"legal,omitempty"`
}

// Evaluation is a secretary's decision record appended to an event. Its
// outcome drives the event status transition.
type Evaluation struct {
	ID            primitive.ObjectID `bson:"id_evaluacion" json:"id_evaluacion"`
	SecretaryID   primitive.ObjectID `bson:"id_secretario" json:"id_secretario"`
	EvaluatedAt   time.Time          `bson:"fecha_evaluacion" json:"fecha_evaluacion"`
	Justification string             `bson:"justificacion,omitempty" json:"justificacion,omitempty"`
	ApprovalDoc   string             `bson:"acta_aprobacion,omitempty" json:"acta_aprobacion,omitempty"`
	Status        EvaluationStatus   `bson:"estado" json:"estado"`
}
