package repository

import (
	"context"

	"gastroplan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ElaboracionRepository interface {
	Crear(ctx context.Context, e *model.Elaboracion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Elaboracion, error)
	Listar(ctx context.Context, partida string) ([]model.Elaboracion, error)
	Actualizar(ctx context.Context, e *model.Elaboracion) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type elaboracionRepo struct{ db *gorm.DB }

func NewElaboracionRepository(db *gorm.DB) ElaboracionRepository { return &elaboracionRepo{db: db} }

func (r *elaboracionRepo) Crear(ctx context.Context, e *model.Elaboracion) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *elaboracionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Elaboracion, error) {
	var e model.Elaboracion
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *elaboracionRepo) Listar(ctx context.Context, partida string) ([]model.Elaboracion, error) {
	q := r.db.WithContext(ctx).Order("nombre ASC")
	if partida != "" && partida != "all" {
		q = q.Where("partida = ?", partida)
	}
	var elaboraciones []model.Elaboracion
	err := q.Find(&elaboraciones).Error
	return elaboraciones, err
}

func (r *elaboracionRepo) Actualizar(ctx context.Context, e *model.Elaboracion) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *elaboracionRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Elaboracion{}).Where("id = ?", id).Update("activa", false).Error
}
