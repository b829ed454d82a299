package model

import (
	"time"

	"github.com/google/uuid"
)

// Partidas: production stations a manufacturing order can be assigned to.
const (
	PartidaFria       = "fria"
	PartidaCaliente   = "caliente"
	PartidaPasteleria = "pasteleria"
	PartidaExpedicion = "expedicion"
)

// Unidades de medida. "unidad" and "pieza" are countable (whole-number
// rounding in the production matrix); "kg" and "l" round to 2 decimals.
const (
	UnidadKg     = "kg"
	UnidadLitro  = "l"
	UnidadUnidad = "unidad"
	UnidadPieza  = "pieza"
)

// Elaboracion is an intermediate kitchen preparation (a base, a sauce, a
// garnish) with its own unit of measure and assigned station, consumed by
// one or more recetas.
type Elaboracion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Unidad    string    `gorm:"type:varchar(10);not null;default:'kg'"`
	Partida   string    `gorm:"type:varchar(12);not null;default:'fria'"`
	Activa    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PartidaValida reports whether p names a known station.
func PartidaValida(p string) bool {
	switch p {
	case PartidaFria, PartidaCaliente, PartidaPasteleria, PartidaExpedicion:
		return true
	}
	return false
}

// UnidadContable reports whether the unit rounds to whole numbers in the
// production matrix.
func UnidadContable(u string) bool {
	return u == UnidadUnidad || u == UnidadPieza
}
