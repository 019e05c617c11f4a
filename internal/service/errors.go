package service

import (
	"errors"
	"fmt"
)

// Rule violations surfaced by the validation engine. Each create/update
// request fails fast with the first violated rule; nothing is aggregated.
var (
	// ErrInvalidDateRange covers both orderings: create requires the start
	// strictly before the end, update accepts equality.
	ErrInvalidDateRange = errors.New("la fecha de inicio debe ser anterior a la fecha de fin")

	// ErrInvalidInitialStatus rejects any caller-supplied initial status
	// other than pending.
	ErrInvalidInitialStatus = errors.New("el estado inicial de un evento siempre debe ser 'pendiente'")

	// ErrNoResponsibles rejects an event without responsible parties.
	ErrNoResponsibles = errors.New("el evento debe tener al menos un responsable")

	// ErrMissingPrincipal and ErrMultiplePrincipals enforce the
	// exactly-one-principal invariant.
	ErrMissingPrincipal   = errors.New("debe haber un responsable principal")
	ErrMultiplePrincipals = errors.New("solo puede haber un responsable principal")

	// ErrRoleConflict rejects mixing teacher-backed and student-backed
	// responsibles on the same event.
	ErrRoleConflict = errors.New("un evento no puede tener responsables docentes y estudiantes al mismo tiempo")

	// ErrNoFacilities rejects an event without an assigned facility.
	ErrNoFacilities = errors.New("debe asignarse minimo una instalacion")

	// ErrNotPending rejects updates against an event that already left the
	// pending state. Deletion carries no such guard.
	ErrNotPending = errors.New("no se puede actualizar un evento que no este pendiente")

	// ErrNoOrganizers is returned by the organizer read when the lookup
	// yields nothing.
	ErrNoOrganizers = errors.New("el evento no tiene responsables registrados")
)

// Reference kinds used in identifier and lookup errors.
const (
	KindEvent        = "evento"
	KindUser         = "usuario"
	KindFacility     = "instalacion"
	KindOrganization = "organizacion"
	KindSecretary    = "secretario"
)

// InvalidIDError reports an identifier that does not parse as an ObjectID.
// It is distinct from a lookup miss.
type InvalidIDError struct {
	Kind string
	ID   string
}

func (e InvalidIDError) Error() string {
	return fmt.Sprintf("el ID de %s no es valido: %s", e.Kind, e.ID)
}

// ReferenceNotFoundError reports a well-formed reference whose target does
// not exist, attributing the failure to the specific id.
type ReferenceNotFoundError struct {
	Kind string
	ID   string
}

func (e ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado: %s", e.Kind, e.ID)
}

// CapacityError reports a facility whose capacity cannot hold the requested
// attendee count.
type CapacityError struct {
	Facility  string
	Requested int
	Available int
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("la instalacion %s no tiene capacidad suficiente: %d solicitados, %d disponibles",
		e.Facility, e.Requested, e.Available)
}
