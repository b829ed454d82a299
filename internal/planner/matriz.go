package planner

import (
	"sort"

	"gastroplan/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CabeceraDia is the per-day summary block at the top of the production matrix.
type CabeceraDia struct {
	Fecha               string          `json:"fecha"`
	Eventos             int             `json:"eventos"`
	Servicios           int             `json:"servicios"`
	Asistentes          int             `json:"asistentes"`
	UnidadesReceta      decimal.Decimal `json:"unidades_receta"`
	UnidadesElaboracion decimal.Decimal `json:"unidades_elaboracion"`
}

// FilaMatriz is one grid row (a receta or an elaboración): a cell per day
// with bucketed quantity (absent day = no cell) plus the cross-day total.
type FilaMatriz struct {
	ID     uuid.UUID                  `json:"id"`
	Nombre string                     `json:"nombre"`
	Unidad string                     `json:"unidad,omitempty"`
	Celdas map[string]decimal.Decimal `json:"celdas"`
	Total  decimal.Decimal            `json:"total"`
}

// Matriz is the day-by-day capacity grid.
type Matriz struct {
	Dias          []string      `json:"dias"`
	Cabeceras     []CabeceraDia `json:"cabeceras"`
	Recetas       []FilaMatriz  `json:"recetas"`
	Elaboraciones []FilaMatriz  `json:"elaboraciones"`
}

// ConstruirMatriz assembles the grid from the per-day demand buckets plus the
// window's events and hitos. Headers are emitted for every day of the window
// even when nothing happens that day; row totals equal the gross-demand
// totals by construction (summed from the same buckets).
func ConstruirMatriz(v Ventana, demanda Demanda, snap Snapshot) Matriz {
	dias := v.Dias()
	m := Matriz{
		Dias:          make([]string, 0, len(dias)),
		Cabeceras:     make([]CabeceraDia, 0, len(dias)),
		Recetas:       []FilaMatriz{},
		Elaboraciones: []FilaMatriz{},
	}
	for _, d := range dias {
		m.Dias = append(m.Dias, d.Format(FormatoDia))
	}

	for _, clave := range m.Dias {
		cab := CabeceraDia{Fecha: clave}
		for _, evento := range snap.Eventos {
			if !evento.Confirmado() || !v.Contiene(evento.FechaInicio) {
				continue
			}
			if dia(evento.FechaInicio).Format(FormatoDia) == clave {
				cab.Eventos++
			}
			for _, hito := range evento.Hitos {
				if !hito.TieneGastronomia || dia(hito.Fecha).Format(FormatoDia) != clave {
					continue
				}
				cab.Servicios++
				cab.Asistentes += hito.Asistentes
			}
		}
		for _, dr := range demanda.Recetas {
			cab.UnidadesReceta = cab.UnidadesReceta.Add(dr.PorDia[clave])
		}
		for _, de := range demanda.Elaboraciones {
			cab.UnidadesElaboracion = cab.UnidadesElaboracion.Add(redondeoNatural(de.PorDia[clave], de.Unidad))
		}
		m.Cabeceras = append(m.Cabeceras, cab)
	}

	for _, dr := range demanda.Recetas {
		m.Recetas = append(m.Recetas, filaDesdeBuckets(dr.RecetaID, dr.Nombre, "", dr.PorDia))
	}
	for _, de := range demanda.Elaboraciones {
		m.Elaboraciones = append(m.Elaboraciones, filaDesdeBuckets(de.ElaboracionID, de.Nombre, de.Unidad, de.PorDia))
	}
	ordenarFilas(m.Recetas)
	ordenarFilas(m.Elaboraciones)
	return m
}

func filaDesdeBuckets(id uuid.UUID, nombre, unidad string, porDia map[string]decimal.Decimal) FilaMatriz {
	fila := FilaMatriz{
		ID:     id,
		Nombre: nombre,
		Unidad: unidad,
		Celdas: map[string]decimal.Decimal{},
	}
	for clave, cantidad := range porDia {
		fila.Celdas[clave] = cantidad
		fila.Total = fila.Total.Add(cantidad)
	}
	return fila
}

func ordenarFilas(filas []FilaMatriz) {
	sort.Slice(filas, func(i, j int) bool {
		if filas[i].Nombre != filas[j].Nombre {
			return filas[i].Nombre < filas[j].Nombre
		}
		return filas[i].ID.String() < filas[j].ID.String()
	})
}

// redondeoNatural rounds to the unit's natural precision: whole numbers for
// countable units, 2 decimals for weight/volume.
func redondeoNatural(cantidad decimal.Decimal, unidad string) decimal.Decimal {
	if model.UnidadContable(unidad) {
		return cantidad.Round(0)
	}
	return cantidad.Round(2)
}
