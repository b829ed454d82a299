package planner_test

import (
	"testing"

	"gastroplan/internal/planner"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplotarMultiplicaPorComponente(t *testing.T) {
	b := nuevoSnap()
	a := b.elaboracion("Base A", "kg", "caliente")
	bb := b.elaboracion("Base B", "l", "fria")
	receta := b.receta("Arroz meloso", componente{a, "2"}, componente{bb, "1.5"})

	out := planner.Explotar(receta, d("4"))
	require.Len(t, out, 2)
	assert.Equal(t, a.ID, out[0].ElaboracionID)
	assert.True(t, out[0].Cantidad.Equal(d("8")), "A: esperado 8, fue %s", out[0].Cantidad)
	assert.Equal(t, bb.ID, out[1].ElaboracionID)
	assert.True(t, out[1].Cantidad.Equal(d("6")), "B: esperado 6, fue %s", out[1].Cantidad)
}

func TestExplotarCantidadNoPositiva(t *testing.T) {
	b := nuevoSnap()
	a := b.elaboracion("Base A", "kg", "caliente")
	receta := b.receta("Arroz meloso", componente{a, "2"})

	assert.Empty(t, planner.Explotar(receta, decimal.Zero))
	assert.Empty(t, planner.Explotar(receta, d("-3")))
}

func TestExplotarComponenteInvalidoSeOmite(t *testing.T) {
	b := nuevoSnap()
	a := b.elaboracion("Base A", "kg", "caliente")
	mal := b.elaboracion("Base rota", "kg", "caliente")
	receta := b.receta("Arroz meloso", componente{a, "2"}, componente{mal, "0"}, componente{mal, "-1"})

	out := planner.Explotar(receta, d("3"))
	require.Len(t, out, 1)
	assert.Equal(t, a.ID, out[0].ElaboracionID)
	assert.True(t, out[0].Cantidad.Equal(d("6")))
}

func TestExplotarNoAplicaMerma(t *testing.T) {
	b := nuevoSnap()
	a := b.elaboracion("Base A", "kg", "caliente")
	receta := b.receta("Arroz meloso", componente{a, "2"})
	receta.Componentes[0].MermaPct = d("15")
	b.snap.Recetas[receta.ID] = receta

	out := planner.Explotar(receta, d("10"))
	require.Len(t, out, 1)
	assert.True(t, out[0].Cantidad.Equal(d("20")), "la merma no interviene en la explosión")
}
