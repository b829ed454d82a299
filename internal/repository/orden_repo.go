package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gastroplan/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrCodigoDuplicado signals an id-allocation race: two writers read the same
// max sequence for the year. The caller may retry; sequences have no
// gap-filling guarantee.
var ErrCodigoDuplicado = errors.New("secuencia de orden duplicada, reintente la operación")

type OrdenRepository interface {
	// Crear allocates (anio, secuencia) read-max-then-increment inside the
	// insert transaction and persists the order. NecesidadTotal is written
	// here and nowhere else except ActualizarNecesidad.
	Crear(ctx context.Context, o *model.OrdenFabricacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenFabricacion, error)
	Listar(ctx context.Context, estado string) ([]model.OrdenFabricacion, error)
	// ListarRelevantes returns the orders a planning run can touch: those
	// whose production date falls in the window plus those linked to any of
	// the window's events.
	ListarRelevantes(ctx context.Context, desde, hasta time.Time, eventoIDs []uuid.UUID) ([]model.OrdenFabricacion, error)
	// Actualizar persists floor-side changes. It always omits
	// necesidad_total: the frozen requirement never travels through the
	// generic update path.
	Actualizar(ctx context.Context, o *model.OrdenFabricacion) error
	// ActualizarNecesidad is the accept-surplus write: the single sanctioned
	// mutation of the frozen requirement after creation.
	ActualizarNecesidad(ctx context.Context, id uuid.UUID, valor decimal.Decimal) error
}

type ordenRepo struct{ db *gorm.DB }

func NewOrdenRepository(db *gorm.DB) OrdenRepository { return &ordenRepo{db: db} }

func (r *ordenRepo) Crear(ctx context.Context, o *model.OrdenFabricacion) error {
	if !model.EstadoValido(o.Estado) {
		return fmt.Errorf("estado de orden desconocido: %q", o.Estado)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		anio := o.FechaCreacion.Year()
		var max int
		if err := tx.Model(&model.OrdenFabricacion{}).
			Where("anio = ?", anio).
			Select("COALESCE(MAX(secuencia), 0)").
			Scan(&max).Error; err != nil {
			return err
		}
		o.Anio = anio
		o.Secuencia = max + 1
		return tx.Create(o).Error
	})
	// unique index (anio, secuencia) catches the read-max race
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCodigoDuplicado
	}
	return err
}

func (r *ordenRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenFabricacion, error) {
	var o model.OrdenFabricacion
	err := r.db.WithContext(ctx).Preload("Elaboracion").First(&o, id).Error
	return &o, err
}

func (r *ordenRepo) Listar(ctx context.Context, estado string) ([]model.OrdenFabricacion, error) {
	q := r.db.WithContext(ctx).Preload("Elaboracion").Order("anio DESC, secuencia DESC")
	if estado != "" && estado != "all" {
		q = q.Where("estado = ?", estado)
	}
	var ordenes []model.OrdenFabricacion
	err := q.Find(&ordenes).Error
	return ordenes, err
}

func (r *ordenRepo) ListarRelevantes(ctx context.Context, desde, hasta time.Time, eventoIDs []uuid.UUID) ([]model.OrdenFabricacion, error) {
	ids := make([]string, 0, len(eventoIDs))
	for _, id := range eventoIDs {
		ids = append(ids, id.String())
	}
	var ordenes []model.OrdenFabricacion
	err := r.db.WithContext(ctx).
		Where(`(fecha_cierre BETWEEN ? AND ?)
		    OR (fecha_cierre IS NULL AND fecha_creacion BETWEEN ? AND ?)
		    OR (evento_ids && ?)`,
			desde, hasta, desde, hasta, pq.StringArray(ids)).
		Order("anio ASC, secuencia ASC").
		Find(&ordenes).Error
	return ordenes, err
}

func (r *ordenRepo) Actualizar(ctx context.Context, o *model.OrdenFabricacion) error {
	return r.db.WithContext(ctx).Omit("necesidad_total", "Elaboracion").Save(o).Error
}

func (r *ordenRepo) ActualizarNecesidad(ctx context.Context, id uuid.UUID, valor decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.OrdenFabricacion{}).
		Where("id = ?", id).
		Update("necesidad_total", valor).Error
}
