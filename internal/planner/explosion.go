package planner

import (
	"gastroplan/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComponenteExplotado is one (elaboración, cantidad) pair produced by
// exploding a recipe line.
type ComponenteExplotado struct {
	ElaboracionID uuid.UUID
	Cantidad      decimal.Decimal
}

// Explotar expands cantidad recipe units into the elaboración quantities they
// imply: cantidad × componente.CantidadPorUnidad per component, in component
// order.
//
// A non-positive requested quantity or a non-positive component quantity
// contributes nothing — bad data is skipped, never propagated. MermaPct is
// deliberately not applied here: explosion plans gross production need, waste
// only enters the costing screens.
func Explotar(receta model.Receta, cantidad decimal.Decimal) []ComponenteExplotado {
	if !cantidad.IsPositive() {
		return nil
	}
	out := make([]ComponenteExplotado, 0, len(receta.Componentes))
	for _, comp := range receta.Componentes {
		if !comp.CantidadPorUnidad.IsPositive() {
			continue
		}
		out = append(out, ComponenteExplotado{
			ElaboracionID: comp.ElaboracionID,
			Cantidad:      cantidad.Mul(comp.CantidadPorUnidad),
		})
	}
	return out
}
