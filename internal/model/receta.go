package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receta is a sellable dish: a fixed bill of elaboraciones per recipe unit.
type Receta struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Categoria string
	Activa    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Componentes []ComponenteReceta `gorm:"foreignKey:RecetaID"`
}

// ComponenteReceta links a receta to one elaboración with the quantity of
// elaboración consumed per single recipe unit.
//
// MermaPct is the waste percentage used by the costing screens. It is NOT
// applied during explosion for production requirements: the kitchen plans
// gross production need, costing applies merma separately.
type ComponenteReceta struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecetaID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ElaboracionID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CantidadPorUnidad decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	MermaPct          decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

func (ComponenteReceta) TableName() string { return "componentes_receta" }
