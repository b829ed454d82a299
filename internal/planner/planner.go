// Package planner implements the production requirements engine: it explodes
// confirmed events into gross demand for elaboraciones, nets that demand
// against recorded production, detects orders whose frozen requirement went
// stale after event edits, and builds the day-by-day production matrix.
//
// The engine is a pure batch transform: given a Snapshot of the input
// collections and a date window it returns a Resultado deterministically,
// with no I/O and no state shared between invocations. All writes (order
// generation, deviation resolution) live in the service layer.
package planner

import (
	"time"

	"gastroplan/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FormatoDia is the bucket key format for per-day quantities.
const FormatoDia = "2006-01-02"

// Epsilon is the satisfied-demand tolerance, in the elaboración's unit of
// measure. Differences at or below it emit neither shortage nor surplus.
var Epsilon = decimal.NewFromFloat(0.001)

// Ventana is the inclusive [Desde, Hasta] planning window.
type Ventana struct {
	Desde time.Time `json:"desde"`
	Hasta time.Time `json:"hasta"`
}

// Valida reports whether the window is usable: both bounds set, not inverted.
func (v Ventana) Valida() bool {
	return !v.Desde.IsZero() && !v.Hasta.IsZero() && !v.Hasta.Before(dia(v.Desde))
}

// Contiene reports whether t (at day granularity) falls inside the window.
func (v Ventana) Contiene(t time.Time) bool {
	d := dia(t)
	return !d.Before(dia(v.Desde)) && !d.After(dia(v.Hasta))
}

// Dias returns every day of the window in order.
func (v Ventana) Dias() []time.Time {
	if !v.Valida() {
		return nil
	}
	var out []time.Time
	for d := dia(v.Desde); !d.After(dia(v.Hasta)); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// dia truncates a timestamp to its calendar day in UTC.
func dia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Snapshot holds the pre-loaded, read-only collections the engine consumes.
// Comandas and Pristinas are keyed by comanda id (= hito id); Recetas and
// Elaboraciones by their own ids.
type Snapshot struct {
	Eventos       []model.Evento
	Comandas      map[uuid.UUID]model.ComandaGastronomica
	Pristinas     map[uuid.UUID]model.ComandaPristina
	Recetas       map[uuid.UUID]model.Receta
	Elaboraciones map[uuid.UUID]model.Elaboracion
	Ordenes       []model.OrdenFabricacion
}

// Resultado is the full engine output: everything here is derived and holds
// no persisted identity — it is recomputed from scratch on every call.
type Resultado struct {
	Ventana      Ventana            `json:"ventana"`
	Demanda      Demanda            `json:"demanda"`
	Necesidades  []Necesidad        `json:"necesidades"`
	Desviaciones []DesviacionEvento `json:"desviaciones"`
	Matriz       Matriz             `json:"matriz"`
}

// Planificar runs the whole pipeline: aggregation, netting, deviation
// detection and matrix construction. An invalid window short-circuits to an
// all-empty (but well-formed) Resultado.
func Planificar(v Ventana, snap Snapshot) Resultado {
	if !v.Valida() {
		return Resultado{
			Ventana:      v,
			Demanda:      demandaVacia(),
			Necesidades:  []Necesidad{},
			Desviaciones: []DesviacionEvento{},
			Matriz:       Matriz{Dias: []string{}, Cabeceras: []CabeceraDia{}, Recetas: []FilaMatriz{}, Elaboraciones: []FilaMatriz{}},
		}
	}

	demanda := AgregarDemanda(v, snap)
	return Resultado{
		Ventana:      v,
		Demanda:      demanda,
		Necesidades:  CalcularNecesidades(v, demanda, snap),
		Desviaciones: DetectarDesviaciones(v, demanda, snap),
		Matriz:       ConstruirMatriz(v, demanda, snap),
	}
}
