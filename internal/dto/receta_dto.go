package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ComponenteRecetaRequest struct {
	ElaboracionID     string          `json:"elaboracion_id"      validate:"required,uuid"`
	CantidadPorUnidad decimal.Decimal `json:"cantidad_por_unidad" validate:"required,gt=0"`
	MermaPct          decimal.Decimal `json:"merma_pct"           validate:"min=0,max=100"`
}

type CrearRecetaRequest struct {
	Nombre      string                    `json:"nombre"      validate:"required,min=2,max=150"`
	Categoria   string                    `json:"categoria"   validate:"omitempty,max=100"`
	Componentes []ComponenteRecetaRequest `json:"componentes" validate:"required,min=1,dive"`
}

type ActualizarRecetaRequest struct {
	Nombre      string                    `json:"nombre"      validate:"omitempty,min=2,max=150"`
	Categoria   string                    `json:"categoria"   validate:"omitempty,max=100"`
	Componentes []ComponenteRecetaRequest `json:"componentes" validate:"omitempty,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ComponenteRecetaResponse struct {
	ElaboracionID     string          `json:"elaboracion_id"`
	ElaboracionNombre string          `json:"elaboracion_nombre,omitempty"`
	CantidadPorUnidad decimal.Decimal `json:"cantidad_por_unidad"`
	MermaPct          decimal.Decimal `json:"merma_pct"`
}

type RecetaResponse struct {
	ID          string                     `json:"id"`
	Nombre      string                     `json:"nombre"`
	Categoria   string                     `json:"categoria"`
	Activa      bool                       `json:"activa"`
	Componentes []ComponenteRecetaResponse `json:"componentes"`
}
