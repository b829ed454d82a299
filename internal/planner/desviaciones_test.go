package planner_test

import (
	"testing"

	"gastroplan/internal/model"
	"gastroplan/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// escenario: OF creada con necesidad 10 para la elaboración E; después el
// operador sube la línea de receta y la demanda recalculada pasa a 15.
func escenarioDesviacion(t *testing.T) (*snapBuilder, model.Elaboracion, model.Receta, *model.Evento, *model.OrdenFabricacion) {
	t.Helper()
	b := nuevoSnap()
	e := b.elaboracion("Gelatina de azafrán", "kg", "fria")
	receta := b.receta("Ensalada tibia", componente{e, "1"})
	ev := b.evento("Boda Ribas", model.EventoConfirmado, "2026-09-10")
	b.hitoConComanda(ev, "Cena de gala", "2026-09-10", 120, "Comanda cena", lineaSpec{receta, "10"})
	orden := b.orden(e, 1, "10", "10", ev)

	// congelar la copia prístina con cantidad 10 y después editar a 15
	b.capturarPristinas()
	comanda := b.snap.Comandas[ev.Hitos[0].ID]
	comanda.Lineas[0].Cantidad = d("15")
	b.snap.Comandas[ev.Hitos[0].ID] = comanda

	return b, e, receta, ev, orden
}

func TestDetectarDesviacionesAtribuyeLinea(t *testing.T) {
	b, _, receta, ev, orden := escenarioDesviacion(t)

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	desviaciones := planner.DetectarDesviaciones(v, planner.AgregarDemanda(v, snap), snap)

	require.Len(t, desviaciones, 1)
	de := desviaciones[0]
	assert.Equal(t, ev.ID, de.EventoID)
	require.Len(t, de.Hitos, 1)
	assert.Equal(t, "Cena de gala", de.Hitos[0].Descripcion)
	require.Len(t, de.Hitos[0].Recetas, 1)

	dr := de.Hitos[0].Recetas[0]
	assert.Equal(t, receta.ID, dr.RecetaID)
	assert.True(t, dr.CantidadOriginal.Equal(d("10")))
	assert.True(t, dr.CantidadActual.Equal(d("15")))
	assert.True(t, dr.Delta.Equal(d("5")))

	require.Len(t, dr.Ordenes, 1)
	od := dr.Ordenes[0]
	assert.Equal(t, orden.ID, od.OrdenID)
	assert.Equal(t, "OF-2026-0001", od.Codigo)
	assert.True(t, od.NecesidadOriginal.Equal(d("10")))
	assert.True(t, od.NecesidadActual.Equal(d("15")))
	assert.True(t, od.Diferencia.Equal(d("5")))
	assert.Empty(t, de.SinAtribuir)
}

func TestDetectarDesviacionesSinDesvioNoEmite(t *testing.T) {
	b := nuevoSnap()
	e := b.elaboracion("Gelatina de azafrán", "kg", "fria")
	receta := b.receta("Ensalada tibia", componente{e, "1"})
	ev := b.evento("Boda Ribas", model.EventoConfirmado, "2026-09-10")
	b.hitoConComanda(ev, "Cena", "2026-09-10", 120, "Comanda", lineaSpec{receta, "10"})
	b.orden(e, 1, "10", "10", ev)
	b.capturarPristinas()

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	desviaciones := planner.DetectarDesviaciones(v, planner.AgregarDemanda(v, snap), snap)
	assert.Empty(t, desviaciones)
}

func TestDetectarDesviacionesAjusteLaHaceDesaparecer(t *testing.T) {
	// Generar la orden de ajuste por la diferencia (+5) eleva la necesidad
	// congelada agregada a 15; el recálculo ya no reporta desviación.
	b, e, _, ev, _ := escenarioDesviacion(t)

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	desviaciones := planner.DetectarDesviaciones(v, planner.AgregarDemanda(v, snap), snap)
	require.Len(t, desviaciones, 1, "antes del ajuste hay desviación")

	b.orden(e, 2, "5", "5", ev) // orden de ajuste: planificada = necesidad = 5
	b.capturarPristinas()       // la resolución refresca las copias prístinas

	snap = b.construir()
	desviaciones = planner.DetectarDesviaciones(v, planner.AgregarDemanda(v, snap), snap)
	assert.Empty(t, desviaciones)
}

func TestDetectarDesviacionesRecetaRetirada(t *testing.T) {
	// La receta desaparece de la comanda: la demanda cae a 0 y el desvío se
	// atribuye a la línea retirada (actual 0, original 10).
	b := nuevoSnap()
	e := b.elaboracion("Gelatina de azafrán", "kg", "fria")
	receta := b.receta("Ensalada tibia", componente{e, "1"})
	ev := b.evento("Boda Ribas", model.EventoConfirmado, "2026-09-10")
	hito := b.hitoConComanda(ev, "Cena", "2026-09-10", 120, "Comanda", lineaSpec{receta, "10"})
	b.orden(e, 1, "10", "10", ev)
	b.capturarPristinas()

	comanda := b.snap.Comandas[hito.ID]
	comanda.Lineas = nil
	b.snap.Comandas[hito.ID] = comanda

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	desviaciones := planner.DetectarDesviaciones(v, planner.AgregarDemanda(v, snap), snap)

	require.Len(t, desviaciones, 1)
	require.Len(t, desviaciones[0].Hitos, 1)
	dr := desviaciones[0].Hitos[0].Recetas[0]
	assert.True(t, dr.CantidadActual.IsZero())
	assert.True(t, dr.CantidadOriginal.Equal(d("10")))
	assert.True(t, dr.Delta.Equal(d("-10")))
	require.Len(t, dr.Ordenes, 1)
	assert.True(t, dr.Ordenes[0].Diferencia.Equal(d("-10")))
}

func TestDetectarDesviacionesSinAtribucion(t *testing.T) {
	// La orden se desvía pero la comanda responsable ya no existe: el desvío
	// se reporta igualmente, sin atribución de línea.
	b := nuevoSnap()
	e := b.elaboracion("Gelatina de azafrán", "kg", "fria")
	receta := b.receta("Ensalada tibia", componente{e, "1"})
	ev := b.evento("Boda Ribas", model.EventoConfirmado, "2026-09-10")
	hito := b.hitoConComanda(ev, "Cena", "2026-09-10", 120, "Comanda", lineaSpec{receta, "10"})
	b.orden(e, 1, "10", "10", ev)
	b.capturarPristinas()

	delete(b.snap.Comandas, hito.ID)
	delete(b.snap.Pristinas, hito.ID)

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	desviaciones := planner.DetectarDesviaciones(v, planner.AgregarDemanda(v, snap), snap)

	require.Len(t, desviaciones, 1)
	assert.Empty(t, desviaciones[0].Hitos)
	require.Len(t, desviaciones[0].SinAtribuir, 1)
	assert.True(t, desviaciones[0].SinAtribuir[0].Diferencia.Equal(d("-10")))
}
