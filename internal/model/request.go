package model

import "time"

// CreateEventRequest is the payload for POST /eventos/. Embedded entries
// carry the catalog snapshot the caller copied at association time; their
// ids are re-resolved against the catalog before the event is persisted.
type CreateEventRequest struct {
	Name         string             `json:"nombre" validate:"required"`
	Description  string             `json:"descripcion"`
	StartDate    time.Time          `json:"fecha_inicio" validate:"required"`
	EndDate      *time.Time         `json:"fecha_fin"`
	Type         EventType          `json:"tipo_evento" validate:"required,oneof=ludico academico"`
	Status       EventStatus        `json:"estado" validate:"omitempty,oneof=pendiente aprobado rechazado"`
	Responsibles []Responsible      `json:"responsables" validate:"dive"`
	Facilities   []EventFacility    `json:"instalaciones" validate:"dive"`
	Orgs         []ParticipatingOrg `json:"organizaciones_externas" validate:"dive"`
	Attendees    int                `json:"asistentes" validate:"gte=0"`
}

// EventPatch is the sparse payload for PATCH /eventos/{id}. Only non-nil
// fields are validated and merged; status and event type are not patchable.
type EventPatch struct {
	Name         *string             `json:"nombre"`
	Description  *string             `json:"descripcion"`
	StartDate    *time.Time          `json:"fecha_inicio"`
	EndDate      *time.Time          `json:"fecha_fin"`
	Attendees    *int                `json:"asistentes" validate:"omitempty,gte=0"`
	Responsibles *[]Responsible      `json:"responsables" validate:"omitempty,dive"`
	Facilities   *[]EventFacility    `json:"instalaciones" validate:"omitempty,dive"`
	Orgs         *[]ParticipatingOrg `json:"organizaciones_externas" validate:"omitempty,dive"`
}

// CreateEvaluationRequest is the payload for POST /eventos/{id}/evaluaciones.
// The evaluation id and timestamp are generated server-side.
type CreateEvaluationRequest struct {
	SecretaryID   string           `json:"id_secretario" validate:"required"`
	Justification string           `json:"justificacion"`
	ApprovalDoc   string           `json:"acta_aprobacion"`
	Status        EvaluationStatus `json:"estado" validate:"required,oneof=aprobado rechazado pendiente"`
}
