package planner

import (
	"sort"

	"gastroplan/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de fila de necesidad.
const (
	TipoFalta     = "falta"
	TipoExcedente = "excedente"
)

// Necesidad is one netting row: a shortage (tipo "falta") or a surplus
// (tipo "excedente") for a single elaboración. Cantidad is always the
// positive magnitude of the difference. For surpluses OrdenOrigenID points
// at the most recent in-window order that produced the excess.
type Necesidad struct {
	ElaboracionID     uuid.UUID       `json:"elaboracion_id"`
	ElaboracionNombre string          `json:"elaboracion_nombre"`
	Unidad            string          `json:"unidad"`
	Partida           string          `json:"partida"`
	Tipo              string          `json:"tipo"`
	Cantidad          decimal.Decimal `json:"cantidad"`
	DemandaBruta      decimal.Decimal `json:"demanda_bruta"`
	Producido         decimal.Decimal `json:"producido"`
	OrdenOrigenID     *uuid.UUID      `json:"orden_origen_id,omitempty"`
	EventosOrigen     []EventoOrigen  `json:"eventos_origen"`
	DetalleRecetas    []AporteReceta  `json:"detalle_recetas"`
}

// CalcularNecesidades nets gross elaboración demand against production
// recorded in the window. The rows partition all differences beyond Epsilon:
// every elaboración with demand appears in at most one row, with the correct
// sign and magnitude.
func CalcularNecesidades(v Ventana, demanda Demanda, snap Snapshot) []Necesidad {
	producido := map[uuid.UUID]decimal.Decimal{}
	ultimaOrden := map[uuid.UUID]*model.OrdenFabricacion{}

	for i := range snap.Ordenes {
		orden := &snap.Ordenes[i]
		if !v.Contiene(orden.FechaProduccion()) {
			continue
		}
		id := orden.ElaboracionID
		producido[id] = producido[id].Add(orden.CantidadProducida())

		// remember the most recent producer as the surplus origin
		prev := ultimaOrden[id]
		if prev == nil || masReciente(orden, prev) {
			ultimaOrden[id] = orden
		}
	}

	necesidades := []Necesidad{}
	for id, de := range demanda.Elaboraciones {
		if de.Total.IsZero() {
			continue
		}
		diferencia := de.Total.Sub(producido[id])
		if diferencia.Abs().LessThanOrEqual(Epsilon) {
			continue // satisfecha
		}

		fila := Necesidad{
			ElaboracionID:     id,
			ElaboracionNombre: de.Nombre,
			Unidad:            de.Unidad,
			Partida:           de.Partida,
			DemandaBruta:      de.Total,
			Producido:         producido[id],
			EventosOrigen:     de.EventosOrigen,
			DetalleRecetas:    de.DetalleRecetas,
		}
		if diferencia.IsPositive() {
			fila.Tipo = TipoFalta
			fila.Cantidad = diferencia
		} else {
			fila.Tipo = TipoExcedente
			fila.Cantidad = diferencia.Abs()
			if orden := ultimaOrden[id]; orden != nil {
				origenID := orden.ID
				fila.OrdenOrigenID = &origenID
			}
		}
		necesidades = append(necesidades, fila)
	}

	sort.Slice(necesidades, func(i, j int) bool {
		if necesidades[i].ElaboracionNombre != necesidades[j].ElaboracionNombre {
			return necesidades[i].ElaboracionNombre < necesidades[j].ElaboracionNombre
		}
		return necesidades[i].ElaboracionID.String() < necesidades[j].ElaboracionID.String()
	})
	return necesidades
}

// masReciente orders producing orders by production date, then by sequence.
func masReciente(a, b *model.OrdenFabricacion) bool {
	fa, fb := a.FechaProduccion(), b.FechaProduccion()
	if !fa.Equal(fb) {
		return fa.After(fb)
	}
	if a.Anio != b.Anio {
		return a.Anio > b.Anio
	}
	return a.Secuencia > b.Secuencia
}
