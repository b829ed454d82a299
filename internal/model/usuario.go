package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles de usuario.
const (
	RolAdministrador = "administrador"
	RolPlanificador  = "planificador"
	RolProduccion    = "produccion"
)

// Usuario is an application account. Rol gates route access:
// administrador manages catalog and users, planificador runs the
// requirements engine, produccion advances orders on the floor.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Nombre       string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
