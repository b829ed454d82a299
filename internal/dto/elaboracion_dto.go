package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearElaboracionRequest struct {
	Nombre  string `json:"nombre"  validate:"required,min=2,max=150"`
	Unidad  string `json:"unidad"  validate:"required,oneof=kg l unidad pieza"`
	Partida string `json:"partida" validate:"required,oneof=fria caliente pasteleria expedicion"`
}

type ActualizarElaboracionRequest struct {
	Nombre  string `json:"nombre"  validate:"omitempty,min=2,max=150"`
	Unidad  string `json:"unidad"  validate:"omitempty,oneof=kg l unidad pieza"`
	Partida string `json:"partida" validate:"omitempty,oneof=fria caliente pasteleria expedicion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ElaboracionResponse struct {
	ID      string `json:"id"`
	Nombre  string `json:"nombre"`
	Unidad  string `json:"unidad"`
	Partida string `json:"partida"`
	Activa  bool   `json:"activa"`
}
