package planner

import (
	"sort"

	"gastroplan/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrdenDesviada is one manufacturing order whose frozen requirement no longer
// matches the demand recomputed now. Diferencia = actual − original: positive
// means the event grew after planning, negative means it shrank.
type OrdenDesviada struct {
	OrdenID           uuid.UUID       `json:"orden_id"`
	Codigo            string          `json:"codigo"`
	ElaboracionID     uuid.UUID       `json:"elaboracion_id"`
	ElaboracionNombre string          `json:"elaboracion_nombre"`
	NecesidadOriginal decimal.Decimal `json:"necesidad_original"`
	NecesidadActual   decimal.Decimal `json:"necesidad_actual"`
	Diferencia        decimal.Decimal `json:"diferencia"`
}

// DesviacionReceta attributes deviations to the specific recipe line that
// changed, comparing the current comanda quantity against the pristine copy.
type DesviacionReceta struct {
	RecetaID         uuid.UUID       `json:"receta_id"`
	RecetaNombre     string          `json:"receta_nombre"`
	CantidadOriginal decimal.Decimal `json:"cantidad_original"`
	CantidadActual   decimal.Decimal `json:"cantidad_actual"`
	Delta            decimal.Decimal `json:"delta"`
	Ordenes          []OrdenDesviada `json:"ordenes"`
}

// DesviacionHito groups attributed deviations under the responsible hito.
type DesviacionHito struct {
	HitoID      uuid.UUID          `json:"hito_id"`
	Descripcion string             `json:"descripcion"`
	Recetas     []DesviacionReceta `json:"recetas"`
}

// DesviacionEvento is the top of the deviation tree: evento → hito → receta →
// deviating orders. Orders whose deviation could not be traced to a specific
// recipe line (recipe removed, comanda deleted) land in SinAtribuir.
type DesviacionEvento struct {
	EventoID     uuid.UUID        `json:"evento_id"`
	EventoNombre string           `json:"evento_nombre"`
	Fecha        string           `json:"fecha"`
	Hitos        []DesviacionHito `json:"hitos"`
	SinAtribuir  []OrdenDesviada  `json:"sin_atribuir,omitempty"`
}

// DetectarDesviaciones compares, for every order linked to a confirmed
// in-window event, the frozen requirement against the whole-window demand
// recomputed now, then walks the event's comandas diffing current recipe
// lines against their pristine copies to locate the responsible edit.
func DetectarDesviaciones(v Ventana, demanda Demanda, snap Snapshot) []DesviacionEvento {
	// orders linked per event, dangling elaboración references excluded
	porEvento := map[uuid.UUID][]*model.OrdenFabricacion{}
	for i := range snap.Ordenes {
		orden := &snap.Ordenes[i]
		if _, ok := snap.Elaboraciones[orden.ElaboracionID]; !ok {
			continue
		}
		for _, eventoID := range orden.Eventos() {
			porEvento[eventoID] = append(porEvento[eventoID], orden)
		}
	}

	resultado := []DesviacionEvento{}
	for _, evento := range snap.Eventos {
		if !evento.Confirmado() || !v.Contiene(evento.FechaInicio) {
			continue
		}
		ordenes := porEvento[evento.ID]
		if len(ordenes) == 0 {
			continue
		}

		// The frozen requirement is compared per elaboración, summing every
		// linked order for it: an adjustment order raises the frozen sum, so
		// a resolved deviation disappears on the next recompute.
		congelado := map[uuid.UUID]decimal.Decimal{}
		for _, orden := range ordenes {
			congelado[orden.ElaboracionID] = congelado[orden.ElaboracionID].Add(orden.NecesidadTotal)
		}

		desviadas := []OrdenDesviada{}
		for _, orden := range ordenes {
			actual := decimal.Zero
			if de, ok := demanda.Elaboraciones[orden.ElaboracionID]; ok {
				actual = de.Total
			}
			diferencia := actual.Sub(congelado[orden.ElaboracionID])
			if diferencia.Abs().LessThanOrEqual(Epsilon) {
				continue
			}
			nombre := snap.Elaboraciones[orden.ElaboracionID].Nombre
			desviadas = append(desviadas, OrdenDesviada{
				OrdenID:           orden.ID,
				Codigo:            orden.Codigo(),
				ElaboracionID:     orden.ElaboracionID,
				ElaboracionNombre: nombre,
				NecesidadOriginal: orden.NecesidadTotal,
				NecesidadActual:   actual,
				Diferencia:        diferencia,
			})
		}
		if len(desviadas) == 0 {
			continue
		}

		de := atribuirDesviaciones(evento, desviadas, snap)
		resultado = append(resultado, de)
	}

	sort.Slice(resultado, func(i, j int) bool {
		if resultado[i].Fecha != resultado[j].Fecha {
			return resultado[i].Fecha < resultado[j].Fecha
		}
		if resultado[i].EventoNombre != resultado[j].EventoNombre {
			return resultado[i].EventoNombre < resultado[j].EventoNombre
		}
		return resultado[i].EventoID.String() < resultado[j].EventoID.String()
	})
	return resultado
}

// atribuirDesviaciones walks the event's gastronomy hitos and, for each
// deviating order, finds the recipe lines containing its elaboración whose
// current quantity differs from the pristine copy.
func atribuirDesviaciones(evento model.Evento, desviadas []OrdenDesviada, snap Snapshot) DesviacionEvento {
	out := DesviacionEvento{
		EventoID:     evento.ID,
		EventoNombre: evento.Nombre,
		Fecha:        dia(evento.FechaInicio).Format(FormatoDia),
	}
	atribuidas := map[uuid.UUID]bool{}

	for _, hito := range evento.Hitos {
		if !hito.TieneGastronomia {
			continue
		}
		comanda, ok := snap.Comandas[hito.ID]
		if !ok {
			continue
		}

		actualPorReceta := cantidadesPorReceta(comanda)
		pristinaPorReceta := map[uuid.UUID]decimal.Decimal{}
		if pristina, ok := snap.Pristinas[comanda.ID]; ok {
			for _, l := range pristina.Lineas {
				pristinaPorReceta[l.RecetaID] = pristinaPorReceta[l.RecetaID].Add(l.Cantidad)
			}
		}

		var dh DesviacionHito
		for _, orden := range desviadas {
			for recetaID, actual := range actualPorReceta {
				receta, ok := snap.Recetas[recetaID]
				if !ok || !recetaContiene(receta, orden.ElaboracionID) {
					continue
				}
				original := pristinaPorReceta[recetaID]
				if actual.Sub(original).Abs().LessThanOrEqual(Epsilon) {
					continue
				}
				adjuntarOrden(&dh, receta, original, actual, orden)
				atribuidas[orden.OrdenID] = true
			}
			// a recipe dropped from the comanda entirely still explains a shrink
			for recetaID, original := range pristinaPorReceta {
				if _, sigue := actualPorReceta[recetaID]; sigue {
					continue
				}
				receta, ok := snap.Recetas[recetaID]
				if !ok || !recetaContiene(receta, orden.ElaboracionID) {
					continue
				}
				adjuntarOrden(&dh, receta, original, decimal.Zero, orden)
				atribuidas[orden.OrdenID] = true
			}
		}
		if len(dh.Recetas) > 0 {
			dh.HitoID = hito.ID
			dh.Descripcion = hito.Descripcion
			sort.Slice(dh.Recetas, func(i, j int) bool {
				return dh.Recetas[i].RecetaNombre < dh.Recetas[j].RecetaNombre
			})
			out.Hitos = append(out.Hitos, dh)
		}
	}

	for _, orden := range desviadas {
		if !atribuidas[orden.OrdenID] {
			out.SinAtribuir = append(out.SinAtribuir, orden)
		}
	}
	sort.Slice(out.SinAtribuir, func(i, j int) bool {
		return out.SinAtribuir[i].Codigo < out.SinAtribuir[j].Codigo
	})
	return out
}

// cantidadesPorReceta sums the comanda's current recipe-line quantities per receta.
func cantidadesPorReceta(comanda model.ComandaGastronomica) map[uuid.UUID]decimal.Decimal {
	out := map[uuid.UUID]decimal.Decimal{}
	for _, l := range comanda.Lineas {
		if l.EsReceta() {
			out[*l.RecetaID] = out[*l.RecetaID].Add(l.Cantidad)
		}
	}
	return out
}

func recetaContiene(receta model.Receta, elaboracionID uuid.UUID) bool {
	for _, c := range receta.Componentes {
		if c.ElaboracionID == elaboracionID {
			return true
		}
	}
	return false
}

// adjuntarOrden appends orden under the hito's entry for receta, creating it
// on first use.
func adjuntarOrden(dh *DesviacionHito, receta model.Receta, original, actual decimal.Decimal, orden OrdenDesviada) {
	for i := range dh.Recetas {
		if dh.Recetas[i].RecetaID == receta.ID {
			dh.Recetas[i].Ordenes = append(dh.Recetas[i].Ordenes, orden)
			ordenarOrdenes(dh.Recetas[i].Ordenes)
			return
		}
	}
	dh.Recetas = append(dh.Recetas, DesviacionReceta{
		RecetaID:         receta.ID,
		RecetaNombre:     receta.Nombre,
		CantidadOriginal: original,
		CantidadActual:   actual,
		Delta:            actual.Sub(original),
		Ordenes:          []OrdenDesviada{orden},
	})
}

func ordenarOrdenes(ordenes []OrdenDesviada) {
	sort.Slice(ordenes, func(i, j int) bool { return ordenes[i].Codigo < ordenes[j].Codigo })
}
