package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEventoRequest struct {
	Nombre      string `json:"nombre"       validate:"required,min=2,max=200"`
	Cliente     string `json:"cliente"      validate:"omitempty,max=200"`
	FechaInicio string `json:"fecha_inicio" validate:"required,datetime=2006-01-02"`
	FechaFin    string `json:"fecha_fin"    validate:"omitempty,datetime=2006-01-02"`
	Espacio     string `json:"espacio"      validate:"omitempty,max=200"`
}

type ActualizarEventoRequest struct {
	Nombre      string `json:"nombre"       validate:"omitempty,min=2,max=200"`
	Cliente     string `json:"cliente"      validate:"omitempty,max=200"`
	Estado      string `json:"estado"       validate:"omitempty,oneof=borrador pendiente confirmado cancelado"`
	FechaInicio string `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin    string `json:"fecha_fin"    validate:"omitempty,datetime=2006-01-02"`
	Espacio     string `json:"espacio"      validate:"omitempty,max=200"`
}

type CrearHitoRequest struct {
	Fecha            string `json:"fecha"             validate:"required,datetime=2006-01-02"`
	Descripcion      string `json:"descripcion"       validate:"required,min=2,max=200"`
	Asistentes       int    `json:"asistentes"        validate:"min=0"`
	TieneGastronomia bool   `json:"tiene_gastronomia"`
}

type ActualizarHitoRequest struct {
	Fecha            string `json:"fecha"             validate:"omitempty,datetime=2006-01-02"`
	Descripcion      string `json:"descripcion"       validate:"omitempty,min=2,max=200"`
	Asistentes       *int   `json:"asistentes"        validate:"omitempty,min=0"`
	TieneGastronomia *bool  `json:"tiene_gastronomia"`
}

// LineaComandaRequest is the receta-vs-separador union on the wire. Cross
// checks that tags cannot express (receta lines need receta_id and a positive
// cantidad) happen in the service.
type LineaComandaRequest struct {
	Tipo     string          `json:"tipo"      validate:"required,oneof=receta separador"`
	RecetaID *string         `json:"receta_id" validate:"omitempty,uuid"`
	Cantidad decimal.Decimal `json:"cantidad"  validate:"min=0"`
	Texto    string          `json:"texto"     validate:"omitempty,max=200"`
}

type GuardarComandaRequest struct {
	Etiqueta string                `json:"etiqueta" validate:"required,min=1,max=100"`
	Lineas   []LineaComandaRequest `json:"lineas"   validate:"dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaComandaResponse struct {
	Orden    int             `json:"orden"`
	Tipo     string          `json:"tipo"`
	RecetaID *string         `json:"receta_id,omitempty"`
	Cantidad decimal.Decimal `json:"cantidad"`
	Texto    string          `json:"texto,omitempty"`
}

type ComandaResponse struct {
	ID       string                 `json:"id"`
	EventoID string                 `json:"evento_id"`
	Etiqueta string                 `json:"etiqueta"`
	Lineas   []LineaComandaResponse `json:"lineas"`
}

type HitoResponse struct {
	ID               string `json:"id"`
	Fecha            string `json:"fecha"`
	Descripcion      string `json:"descripcion"`
	Asistentes       int    `json:"asistentes"`
	TieneGastronomia bool   `json:"tiene_gastronomia"`
}

type EventoResponse struct {
	ID          string         `json:"id"`
	Nombre      string         `json:"nombre"`
	Cliente     string         `json:"cliente"`
	Estado      string         `json:"estado"`
	FechaInicio string         `json:"fecha_inicio"`
	FechaFin    *string        `json:"fecha_fin"`
	Espacio     string         `json:"espacio"`
	Hitos       []HitoResponse `json:"hitos"`
}
