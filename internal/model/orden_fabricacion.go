package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una orden de fabricación. Progression is
// strictly linear; the Incidencia flag runs in parallel and never blocks it.
const (
	OrdenPendiente  = "pendiente"
	OrdenAsignada   = "asignada"
	OrdenEnProceso  = "en_proceso"
	OrdenFinalizada = "finalizada"
	OrdenValidada   = "validada"
)

// OrdenFabricacion ("OF") is a work order to produce a quantity of one
// elaboración by a given date.
//
// NecesidadTotal is the requirement frozen at creation time — the only
// historical "what we thought we needed" signal. It is never touched by the
// generic update path; only order creation and the accept-surplus resolution
// write it (repository enforces this with a column omit).
type OrdenFabricacion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Anio      int       `gorm:"not null;uniqueIndex:idx_ordenes_anio_secuencia"`
	Secuencia int       `gorm:"not null;uniqueIndex:idx_ordenes_anio_secuencia"`

	FechaCreacion    time.Time  `gorm:"type:date;not null"`
	FechaPlanificada time.Time  `gorm:"type:date;not null;index"`
	FechaCierre      *time.Time `gorm:"type:date"`

	ElaboracionID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CantidadPlanificada  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	NecesidadTotal       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CantidadReal         *decimal.Decimal `gorm:"type:decimal(12,3)"`
	Partida              string          `gorm:"type:varchar(12);not null"`
	EventoIDs            pq.StringArray  `gorm:"type:text[]"`
	Estado               string          `gorm:"type:varchar(12);not null;default:'pendiente';index"`
	Incidencia           bool            `gorm:"not null;default:false"`
	CalidadOK            *bool
	ObservacionIncidencia string

	CreatedAt time.Time
	UpdatedAt time.Time

	Elaboracion *Elaboracion `gorm:"foreignKey:ElaboracionID"`
}

func (OrdenFabricacion) TableName() string { return "ordenes_fabricacion" }

// Codigo is the human-readable display id, derived — never stored.
func (o *OrdenFabricacion) Codigo() string {
	return fmt.Sprintf("OF-%d-%04d", o.Anio, o.Secuencia)
}

// FechaProduccion is the date used to decide whether the order's output
// counts against a planning window: the closing date once closed, the
// creation date otherwise.
func (o *OrdenFabricacion) FechaProduccion() time.Time {
	if o.FechaCierre != nil {
		return *o.FechaCierre
	}
	return o.FechaCreacion
}

// CantidadProducida is what the netting engine counts as "produced so far":
// the recorded actual for validated or incident orders that have one, the
// planned quantity otherwise.
func (o *OrdenFabricacion) CantidadProducida() decimal.Decimal {
	if (o.Estado == OrdenValidada || o.Incidencia) && o.CantidadReal != nil {
		return *o.CantidadReal
	}
	return o.CantidadPlanificada
}

// Eventos returns the linked event ids as UUIDs, skipping malformed entries.
func (o *OrdenFabricacion) Eventos() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(o.EventoIDs))
	for _, s := range o.EventoIDs {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// EstadoValido reports whether e names one of the five lifecycle states.
func EstadoValido(e string) bool {
	switch e {
	case OrdenPendiente, OrdenAsignada, OrdenEnProceso, OrdenFinalizada, OrdenValidada:
		return true
	}
	return false
}

// siguienteEstado maps each state to its single legal successor.
var siguienteEstado = map[string]string{
	OrdenPendiente:  OrdenAsignada,
	OrdenAsignada:   OrdenEnProceso,
	OrdenEnProceso:  OrdenFinalizada,
	OrdenFinalizada: OrdenValidada,
}

// Avanzar moves the order to nuevo if that is the legal next state.
func (o *OrdenFabricacion) Avanzar(nuevo string) error {
	if !EstadoValido(nuevo) {
		return fmt.Errorf("estado desconocido: %q", nuevo)
	}
	if siguienteEstado[o.Estado] != nuevo {
		return fmt.Errorf("transición inválida: %s → %s", o.Estado, nuevo)
	}
	o.Estado = nuevo
	return nil
}

// MarcarIncidencia flags a quality issue. Only meaningful once production
// finished; it does not block state progression.
func (o *OrdenFabricacion) MarcarIncidencia(observacion string) error {
	if o.Estado != OrdenFinalizada && o.Estado != OrdenValidada {
		return fmt.Errorf("incidencia solo registrable desde finalizada (estado actual: %s)", o.Estado)
	}
	o.Incidencia = true
	o.ObservacionIncidencia = observacion
	return nil
}
