package repository

import (
	"context"

	"gastroplan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecetaRepository interface {
	Crear(ctx context.Context, r *model.Receta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receta, error)
	Listar(ctx context.Context, incluirInactivas bool) ([]model.Receta, error)
	Actualizar(ctx context.Context, r *model.Receta) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type recetaRepo struct{ db *gorm.DB }

func NewRecetaRepository(db *gorm.DB) RecetaRepository { return &recetaRepo{db: db} }

func (r *recetaRepo) Crear(ctx context.Context, receta *model.Receta) error {
	return r.db.WithContext(ctx).Create(receta).Error
}

func (r *recetaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Receta, error) {
	var receta model.Receta
	err := r.db.WithContext(ctx).Preload("Componentes").First(&receta, id).Error
	return &receta, err
}

func (r *recetaRepo) Listar(ctx context.Context, incluirInactivas bool) ([]model.Receta, error) {
	q := r.db.WithContext(ctx).Preload("Componentes").Order("nombre ASC")
	if !incluirInactivas {
		q = q.Where("activa = true")
	}
	var recetas []model.Receta
	err := q.Find(&recetas).Error
	return recetas, err
}

// Actualizar rewrites the receta and its component list wholesale.
func (r *recetaRepo) Actualizar(ctx context.Context, receta *model.Receta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Componentes").Save(receta).Error; err != nil {
			return err
		}
		if err := tx.Where("receta_id = ?", receta.ID).Delete(&model.ComponenteReceta{}).Error; err != nil {
			return err
		}
		for i := range receta.Componentes {
			receta.Componentes[i].RecetaID = receta.ID
			if err := tx.Create(&receta.Componentes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *recetaRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Receta{}).Where("id = ?", id).Update("activa", false).Error
}
