package planner

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventoOrigen records which event (and which comanda within it) contributed
// demand. Deduplicated by evento id + etiqueta.
type EventoOrigen struct {
	EventoID     uuid.UUID `json:"evento_id"`
	EventoNombre string    `json:"evento_nombre"`
	Etiqueta     string    `json:"etiqueta"`
	Fecha        string    `json:"fecha"`
}

// AporteReceta is the per-recipe contribution to an elaboración's demand.
type AporteReceta struct {
	RecetaID     uuid.UUID       `json:"receta_id"`
	RecetaNombre string          `json:"receta_nombre"`
	Cantidad     decimal.Decimal `json:"cantidad"`
}

// DemandaElaboracion is the aggregated gross demand for one elaboración.
type DemandaElaboracion struct {
	ElaboracionID uuid.UUID                  `json:"elaboracion_id"`
	Nombre        string                     `json:"nombre"`
	Unidad        string                     `json:"unidad"`
	Partida       string                     `json:"partida"`
	Total         decimal.Decimal            `json:"total"`
	PorDia        map[string]decimal.Decimal `json:"por_dia"`
	EventosOrigen []EventoOrigen             `json:"eventos_origen"`
	DetalleRecetas []AporteReceta            `json:"detalle_recetas"`
}

// DemandaReceta is the aggregated gross demand for one receta.
type DemandaReceta struct {
	RecetaID uuid.UUID                  `json:"receta_id"`
	Nombre   string                     `json:"nombre"`
	Total    decimal.Decimal            `json:"total"`
	PorDia   map[string]decimal.Decimal `json:"por_dia"`
}

// Demanda holds both parallel gross-demand maps.
type Demanda struct {
	Elaboraciones map[uuid.UUID]*DemandaElaboracion `json:"elaboraciones"`
	Recetas       map[uuid.UUID]*DemandaReceta      `json:"recetas"`
}

func demandaVacia() Demanda {
	return Demanda{
		Elaboraciones: map[uuid.UUID]*DemandaElaboracion{},
		Recetas:       map[uuid.UUID]*DemandaReceta{},
	}
}

// AgregarDemanda scans confirmed events whose start date falls in the window,
// walks their gastronomy comandas and explodes every recipe line into
// per-day, per-elaboración and per-receta gross demand with traceability.
//
// Dangling recipe references are skipped silently: comandas may outlive the
// recetas they were written against.
func AgregarDemanda(v Ventana, snap Snapshot) Demanda {
	demanda := demandaVacia()

	// key for dedup of contributing events: evento id + comanda etiqueta
	type origenKey struct {
		evento   uuid.UUID
		etiqueta string
	}
	origenes := map[uuid.UUID]map[origenKey]bool{}

	for _, evento := range snap.Eventos {
		if !evento.Confirmado() || !v.Contiene(evento.FechaInicio) {
			continue
		}
		claveDia := dia(evento.FechaInicio).Format(FormatoDia)

		for _, hito := range evento.Hitos {
			if !hito.TieneGastronomia {
				continue
			}
			comanda, ok := snap.Comandas[hito.ID]
			if !ok {
				continue
			}

			for _, linea := range comanda.Lineas {
				if !linea.EsReceta() {
					continue
				}
				receta, ok := snap.Recetas[*linea.RecetaID]
				if !ok {
					continue
				}

				// per-receta gross demand, bucketed by the EVENT's start date
				dr := demanda.Recetas[receta.ID]
				if dr == nil {
					dr = &DemandaReceta{
						RecetaID: receta.ID,
						Nombre:   receta.Nombre,
						PorDia:   map[string]decimal.Decimal{},
					}
					demanda.Recetas[receta.ID] = dr
				}
				dr.Total = dr.Total.Add(linea.Cantidad)
				dr.PorDia[claveDia] = dr.PorDia[claveDia].Add(linea.Cantidad)

				// explode into elaboraciones
				for _, comp := range Explotar(receta, linea.Cantidad) {
					de := demanda.Elaboraciones[comp.ElaboracionID]
					if de == nil {
						de = &DemandaElaboracion{
							ElaboracionID: comp.ElaboracionID,
							PorDia:        map[string]decimal.Decimal{},
						}
						if elab, ok := snap.Elaboraciones[comp.ElaboracionID]; ok {
							de.Nombre = elab.Nombre
							de.Unidad = elab.Unidad
							de.Partida = elab.Partida
						}
						demanda.Elaboraciones[comp.ElaboracionID] = de
						origenes[comp.ElaboracionID] = map[origenKey]bool{}
					}
					de.Total = de.Total.Add(comp.Cantidad)
					de.PorDia[claveDia] = de.PorDia[claveDia].Add(comp.Cantidad)

					key := origenKey{evento: evento.ID, etiqueta: comanda.Etiqueta}
					if !origenes[comp.ElaboracionID][key] {
						origenes[comp.ElaboracionID][key] = true
						de.EventosOrigen = append(de.EventosOrigen, EventoOrigen{
							EventoID:     evento.ID,
							EventoNombre: evento.Nombre,
							Etiqueta:     comanda.Etiqueta,
							Fecha:        claveDia,
						})
					}
					agregarAporte(de, receta.ID, receta.Nombre, comp.Cantidad)
				}
			}
		}
	}

	// deterministic ordering of traceability slices
	for _, de := range demanda.Elaboraciones {
		sort.Slice(de.EventosOrigen, func(i, j int) bool {
			a, b := de.EventosOrigen[i], de.EventosOrigen[j]
			if a.EventoNombre != b.EventoNombre {
				return a.EventoNombre < b.EventoNombre
			}
			if a.Etiqueta != b.Etiqueta {
				return a.Etiqueta < b.Etiqueta
			}
			return a.EventoID.String() < b.EventoID.String()
		})
		sort.Slice(de.DetalleRecetas, func(i, j int) bool {
			a, b := de.DetalleRecetas[i], de.DetalleRecetas[j]
			if a.RecetaNombre != b.RecetaNombre {
				return a.RecetaNombre < b.RecetaNombre
			}
			return a.RecetaID.String() < b.RecetaID.String()
		})
	}
	return demanda
}

// agregarAporte accumulates a recipe contribution, keeping one entry per receta.
func agregarAporte(de *DemandaElaboracion, recetaID uuid.UUID, nombre string, cantidad decimal.Decimal) {
	for i := range de.DetalleRecetas {
		if de.DetalleRecetas[i].RecetaID == recetaID {
			de.DetalleRecetas[i].Cantidad = de.DetalleRecetas[i].Cantidad.Add(cantidad)
			return
		}
	}
	de.DetalleRecetas = append(de.DetalleRecetas, AporteReceta{
		RecetaID:     recetaID,
		RecetaNombre: nombre,
		Cantidad:     cantidad,
	})
}
