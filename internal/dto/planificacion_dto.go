package dto

import "gastroplan/internal/planner"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PlanFilter is bound from the query string of GET /v1/planificacion.
type PlanFilter struct {
	Desde string `form:"desde" validate:"required,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"required,datetime=2006-01-02"`
}

// GenerarOrdenesRequest selects shortage rows of the current plan by
// elaboración id and turns them into manufacturing orders.
type GenerarOrdenesRequest struct {
	Desde           string   `json:"desde"            validate:"required,datetime=2006-01-02"`
	Hasta           string   `json:"hasta"            validate:"required,datetime=2006-01-02"`
	FechaProduccion string   `json:"fecha_produccion" validate:"required,datetime=2006-01-02"`
	ElaboracionIDs  []string `json:"elaboracion_ids"  validate:"required,min=1,dive,uuid"`
}

type ResolverDesviacionRequest struct {
	Desde  string `json:"desde"  validate:"required,datetime=2006-01-02"`
	Hasta  string `json:"hasta"  validate:"required,datetime=2006-01-02"`
	Accion string `json:"accion" validate:"required,oneof=ajustar aceptar_excedente"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// OrdenOmitida explains why a selected elaboración produced no order.
// Skipping is deliberate: selecting a surplus or an unknown id is a no-op,
// never an error.
type OrdenOmitida struct {
	ElaboracionID string `json:"elaboracion_id"`
	Motivo        string `json:"motivo"`
}

type GenerarOrdenesResponse struct {
	Ordenes  []OrdenResponse   `json:"ordenes"`
	Omitidas []OrdenOmitida    `json:"omitidas"`
	Plan     planner.Resultado `json:"plan"`
}

type ResolverDesviacionResponse struct {
	Ordenes []OrdenResponse   `json:"ordenes"`
	Plan    planner.Resultado `json:"plan"`
}
