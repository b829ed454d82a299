package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de un evento. Solo los confirmados participan en la planificación
// de producción.
const (
	EventoBorrador   = "borrador"
	EventoPendiente  = "pendiente"
	EventoConfirmado = "confirmado"
	EventoCancelado  = "cancelado"
)

// Evento is a booking (wedding, congress, corporate dinner). The production
// requirements engine only reads confirmed events; all mutation happens in
// the event-management screens.
type Evento struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Cliente     string
	Estado      string    `gorm:"type:varchar(20);not null;default:'borrador';index"`
	FechaInicio time.Time `gorm:"type:date;not null;index"`
	FechaFin    *time.Time `gorm:"type:date"`
	Espacio     string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Hitos []Hito `gorm:"foreignKey:EventoID"`
}

// Confirmado reports whether the event participates in planning.
func (e *Evento) Confirmado() bool { return e.Estado == EventoConfirmado }

// Hito is a scheduled service slot inside an event ("cocktail de bienvenida",
// "cena de gala"). A hito with TieneGastronomia=true has exactly one
// ComandaGastronomica sharing its id.
type Hito struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventoID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Fecha            time.Time `gorm:"type:date;not null"`
	Descripcion      string    `gorm:"not null"`
	Asistentes       int       `gorm:"not null;default:0"`
	TieneGastronomia bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
