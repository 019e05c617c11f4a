package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole distinguishes the kinds of users that can back or evaluate an
// event. Responsible parties must be role-homogeneous: an event never mixes
// teacher-backed and student-backed responsibles.
type UserRole string

const (
	RoleTeacher   UserRole = "docente"
	RoleStudent   UserRole = "estudiante"
	RoleSecretary UserRole = "secretaria"
)

// User is a catalog document in the "usuarios" collection. The event core
// resolves users but never mutates them.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"nombre" json:"nombre"`
	Email        string             `bson:"correo" json:"correo"`
	Role         UserRole           `bson:"rol" json:"rol"`
	Affiliations []Affiliation      `bson:"vinculacion,omitempty" json:"vinculacion,omitempty"`
}

// Affiliation links a user to an academic unit, program or faculty. Only the
// name is surfaced by the organizer read.
type Affiliation struct {
	AcademicUnitID *primitive.ObjectID `bson:"unidadAcademicaId,omitempty" json:"unidadAcademicaId,omitempty"`
	ProgramID      *primitive.ObjectID `bson:"programaId,omitempty" json:"programaId,omitempty"`
	FacultyID      *primitive.ObjectID `bson:"facultadId,omitempty" json:"facultadId,omitempty"`
	StartDate      time.Time           `bson:"fechaInicio" json:"fechaInicio"`
	EndDate        *time.Time          `bson:"fechaFin,omitempty" json:"fechaFin,omitempty"`
	Status         string              `bson:"estado" json:"estado"`
	Name           string              `bson:"nombre,omitempty" json:"nombre,omitempty"`
}

// FacilityType categorizes a physical venue.
type FacilityType string

const (
	FacilityClassroom  FacilityType = "salon"
	FacilityAuditorium FacilityType = "auditorio"
	FacilityLab        FacilityType = "laboratorio"
	FacilityField      FacilityType = "cancha"
)

// Facility is a catalog document in the "instalaciones" collection.
type Facility struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"nombre" json:"nombre"`
	Location string             `bson:"ubicacion,omitempty" json:"ubicacion,omitempty"`
	Capacity int                `bson:"capacidad" json:"capacidad"`
	Type     FacilityType       `bson:"tipo,omitempty" json:"tipo,omitempty"`
}

// ExternalOrg is a catalog document in the "organizaciones_externas"
// collection: a non-university entity that can participate in events.
type ExternalOrg struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name           string             `bson:"nombre" json:"nombre"`
	EconomicSector string             `bson:"sector_economico,omitempty" json:"sector_economico,omitempty"`
	MainActivity   string             `bson:"actividad_principal,omitempty" json:"actividad_principal,omitempty"`
	LegalRep       LegalRep           `bson:"representante_legal" json:"representante_legal"`
	Contact        *OrgContact        `bson:"contacto,omitempty" json:"contacto,omitempty"`
}

// LegalRep is the registered legal representative of an external
// organization.
type LegalRep struct {
	Name     string `bson:"nombre" json:"nombre"`
	Position string `bson:"cargo" json:"cargo"`
	Email    string `bson:"correo" json:"correo"`
}

// OrgContact holds contact details for an external organization.
type OrgContact struct {
	Phones  []int      `bson:"telefonos" json:"telefonos"`
	Address OrgAddress `bson:"direccion" json:"direccion"`
}

// OrgAddress is the organization's registered address.
type OrgAddress struct {
	Department string `bson:"departamento" json:"departamento"`
	City       string `bson:"ciudad" json:"ciudad"`
}
