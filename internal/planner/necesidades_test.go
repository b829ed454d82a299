package planner_test

import (
	"testing"

	"gastroplan/internal/model"
	"gastroplan/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcularNecesidadesFalta(t *testing.T) {
	b := nuevoSnap()
	base := b.elaboracion("Sofrito base", "kg", "caliente")
	receta := b.receta("Paella", componente{base, "1"})
	ev := b.evento("Boda Ribas", model.EventoConfirmado, "2026-09-10")
	b.hitoConComanda(ev, "Cena", "2026-09-10", 100, "Comanda", lineaSpec{receta, "12"})
	b.orden(base, 1, "4", "4", ev)

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	necesidades := planner.CalcularNecesidades(v, planner.AgregarDemanda(v, snap), snap)

	require.Len(t, necesidades, 1)
	fila := necesidades[0]
	assert.Equal(t, planner.TipoFalta, fila.Tipo)
	assert.True(t, fila.Cantidad.Equal(d("8")), "12 demandados − 4 planificados")
	assert.True(t, fila.DemandaBruta.Equal(d("12")))
	assert.True(t, fila.Producido.Equal(d("4")))
	assert.Equal(t, "caliente", fila.Partida)
	assert.Nil(t, fila.OrdenOrigenID)
	require.Len(t, fila.EventosOrigen, 1)
}

func TestCalcularNecesidadesExcedenteConOrdenOrigen(t *testing.T) {
	// producido 20 vs demanda 12 → excedente 8 con orden de origen
	b := nuevoSnap()
	base := b.elaboracion("Crema catalana base", "l", "pasteleria")
	receta := b.receta("Crema catalana", componente{base, "1"})
	ev := b.evento("Boda Ribas", model.EventoConfirmado, "2026-09-10")
	b.hitoConComanda(ev, "Postre", "2026-09-10", 100, "Comanda", lineaSpec{receta, "12"})
	orden := b.orden(base, 1, "20", "20", ev)

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	necesidades := planner.CalcularNecesidades(v, planner.AgregarDemanda(v, snap), snap)

	require.Len(t, necesidades, 1)
	fila := necesidades[0]
	assert.Equal(t, planner.TipoExcedente, fila.Tipo)
	assert.True(t, fila.Cantidad.Equal(d("8")))
	require.NotNil(t, fila.OrdenOrigenID)
	assert.Equal(t, orden.ID, *fila.OrdenOrigenID)
}

func TestCalcularNecesidadesSatisfechaDentroDeEpsilon(t *testing.T) {
	b := nuevoSnap()
	base := b.elaboracion("Sofrito base", "kg", "caliente")
	receta := b.receta("Paella", componente{base, "1"})
	ev := b.evento("Boda Ribas", model.EventoConfirmado, "2026-09-10")
	b.hitoConComanda(ev, "Cena", "2026-09-10", 100, "Comanda", lineaSpec{receta, "10"})
	b.orden(base, 1, "10.0005", "10.0005", ev)

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	necesidades := planner.CalcularNecesidades(v, planner.AgregarDemanda(v, snap), snap)
	assert.Empty(t, necesidades, "diferencia ≤ ε no emite fila")
}

func TestCalcularNecesidadesParticion(t *testing.T) {
	// Cada elaboración con diferencia > ε aparece exactamente una vez.
	b := nuevoSnap()
	corta := b.elaboracion("Base corta", "kg", "caliente")
	sobra := b.elaboracion("Base sobrante", "kg", "fria")
	justa := b.elaboracion("Base justa", "kg", "caliente")
	receta := b.receta("Menú degustación",
		componente{corta, "1"}, componente{sobra, "1"}, componente{justa, "1"})

	ev := b.evento("Congreso TAC", model.EventoConfirmado, "2026-09-15")
	b.hitoConComanda(ev, "Almuerzo", "2026-09-15", 200, "Comanda", lineaSpec{receta, "10"})

	b.orden(corta, 1, "6", "6", ev)  // falta 4
	b.orden(sobra, 2, "15", "15", ev) // excedente 5
	b.orden(justa, 3, "10", "10", ev) // satisfecha

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	necesidades := planner.CalcularNecesidades(v, planner.AgregarDemanda(v, snap), snap)

	require.Len(t, necesidades, 2)
	vistos := map[string]planner.Necesidad{}
	for _, n := range necesidades {
		_, repetida := vistos[n.ElaboracionNombre]
		require.False(t, repetida, "elaboración duplicada en la partición")
		vistos[n.ElaboracionNombre] = n
	}
	assert.Equal(t, planner.TipoFalta, vistos["Base corta"].Tipo)
	assert.True(t, vistos["Base corta"].Cantidad.Equal(d("4")))
	assert.Equal(t, planner.TipoExcedente, vistos["Base sobrante"].Tipo)
	assert.True(t, vistos["Base sobrante"].Cantidad.Equal(d("5")))
}

func TestCalcularNecesidadesUsaCantidadRealEnTerminales(t *testing.T) {
	b := nuevoSnap()
	base := b.elaboracion("Sofrito base", "kg", "caliente")
	receta := b.receta("Paella", componente{base, "1"})
	ev := b.evento("Boda Ribas", model.EventoConfirmado, "2026-09-10")
	b.hitoConComanda(ev, "Cena", "2026-09-10", 100, "Comanda", lineaSpec{receta, "10"})

	orden := b.orden(base, 1, "10", "10", ev)
	orden.Estado = model.OrdenValidada
	real := d("7")
	orden.CantidadReal = &real
	cierre := fecha("2026-09-09")
	orden.FechaCierre = &cierre

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	necesidades := planner.CalcularNecesidades(v, planner.AgregarDemanda(v, snap), snap)

	require.Len(t, necesidades, 1)
	assert.Equal(t, planner.TipoFalta, necesidades[0].Tipo)
	assert.True(t, necesidades[0].Cantidad.Equal(d("3")), "validada cuenta su cantidad real")
}

func TestCalcularNecesidadesOrdenFueraDeVentanaNoCuenta(t *testing.T) {
	b := nuevoSnap()
	base := b.elaboracion("Sofrito base", "kg", "caliente")
	receta := b.receta("Paella", componente{base, "1"})
	ev := b.evento("Boda Ribas", model.EventoConfirmado, "2026-09-10")
	b.hitoConComanda(ev, "Cena", "2026-09-10", 100, "Comanda", lineaSpec{receta, "10"})

	orden := b.orden(base, 1, "10", "10", ev)
	orden.FechaCreacion = fecha("2026-08-01") // producción fuera de la ventana

	v := ventana("2026-09-01", "2026-09-30")
	snap := b.construir()
	necesidades := planner.CalcularNecesidades(v, planner.AgregarDemanda(v, snap), snap)

	require.Len(t, necesidades, 1)
	assert.True(t, necesidades[0].Cantidad.Equal(d("10")))
}
