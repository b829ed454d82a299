package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de línea dentro de una comanda.
const (
	LineaReceta    = "receta"
	LineaSeparador = "separador"
)

// ComandaGastronomica is the gastronomy order attached to a hito. Its id is
// the hito's id. Lines are ordered; separator lines only structure the
// kitchen printout and are ignored by the requirements engine.
type ComandaGastronomica struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventoID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Etiqueta  string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Lineas []LineaComanda `gorm:"foreignKey:ComandaID"`
}

// LineaComanda is the receta-vs-separador union. Tipo discriminates:
// "receta" lines carry RecetaID + Cantidad, "separador" lines only Texto.
// Validated at the collection boundary so the engine never sees a malformed line.
type LineaComanda struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComandaID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Orden     int        `gorm:"not null"`
	Tipo      string     `gorm:"type:varchar(12);not null"`
	RecetaID  *uuid.UUID `gorm:"type:uuid;index"`
	Cantidad  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Texto     string
}

// EsReceta reports whether the line contributes demand: a receta line with a
// resolvable receta reference and a positive quantity.
func (l *LineaComanda) EsReceta() bool {
	return l.Tipo == LineaReceta && l.RecetaID != nil && l.Cantidad.IsPositive()
}

// ComandaPristina is the frozen copy of a comanda's recipe lines, captured
// when manufacturing orders are generated for its event. The deviation
// detector diffs current lines against this snapshot to locate which recipe
// line changed after production was planned.
type ComandaPristina struct {
	ComandaID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventoID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Etiqueta   string
	CapturadaEn time.Time `gorm:"not null"`

	Lineas []LineaPristina `gorm:"foreignKey:ComandaID"`
}

func (ComandaPristina) TableName() string { return "comandas_pristinas" }

// LineaPristina only keeps what the diff needs: receta + cantidad.
type LineaPristina struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComandaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	RecetaID  uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
}

func (LineaPristina) TableName() string { return "lineas_pristinas" }
