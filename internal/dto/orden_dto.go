package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// OrdenFilter is bound from the query string of GET /v1/ordenes.
type OrdenFilter struct {
	Estado  string `form:"estado"  validate:"omitempty,oneof=pendiente asignada en_proceso finalizada validada"`
	Partida string `form:"partida" validate:"omitempty,oneof=fria caliente pasteleria expedicion"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente asignada en_proceso finalizada validada"`
}

type IncidenciaRequest struct {
	Observacion string `json:"observacion" validate:"required,min=5"`
}

type CalidadRequest struct {
	CalidadOK *bool `json:"calidad_ok" validate:"required"`
}

// CerrarOrdenRequest records the actual produced quantity. FechaCierre is
// optional and defaults to today.
type CerrarOrdenRequest struct {
	CantidadReal decimal.Decimal `json:"cantidad_real" validate:"required,min=0"`
	FechaCierre  string          `json:"fecha_cierre"  validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrdenResponse struct {
	ID                    string           `json:"id"`
	Codigo                string           `json:"codigo"`
	Anio                  int              `json:"anio"`
	Secuencia             int              `json:"secuencia"`
	FechaCreacion         string           `json:"fecha_creacion"`
	FechaPlanificada      string           `json:"fecha_planificada"`
	FechaCierre           *string          `json:"fecha_cierre"`
	ElaboracionID         string           `json:"elaboracion_id"`
	ElaboracionNombre     string           `json:"elaboracion_nombre"`
	Unidad                string           `json:"unidad"`
	Partida               string           `json:"partida"`
	CantidadPlanificada   decimal.Decimal  `json:"cantidad_planificada"`
	NecesidadTotal        decimal.Decimal  `json:"necesidad_total"`
	CantidadReal          *decimal.Decimal `json:"cantidad_real"`
	EventoIDs             []string         `json:"evento_ids"`
	Estado                string           `json:"estado"`
	Incidencia            bool             `json:"incidencia"`
	CalidadOK             *bool            `json:"calidad_ok"`
	ObservacionIncidencia string           `json:"observacion_incidencia,omitempty"`
}

type OrdenListResponse struct {
	Data  []OrdenResponse `json:"data"`
	Total int             `json:"total"`
}
