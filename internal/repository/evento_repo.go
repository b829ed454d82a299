package repository

import (
	"context"
	"time"

	"gastroplan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventoRepository interface {
	Crear(ctx context.Context, e *model.Evento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Evento, error)
	Listar(ctx context.Context, estado string) ([]model.Evento, error)
	Actualizar(ctx context.Context, e *model.Evento) error
	CrearHito(ctx context.Context, h *model.Hito) error
	ActualizarHito(ctx context.Context, h *model.Hito) error
	// ListarConfirmadosEnVentana feeds the planning snapshot: confirmed
	// events whose start date falls in [desde, hasta], hitos preloaded.
	ListarConfirmadosEnVentana(ctx context.Context, desde, hasta time.Time) ([]model.Evento, error)
}

type eventoRepo struct{ db *gorm.DB }

func NewEventoRepository(db *gorm.DB) EventoRepository { return &eventoRepo{db: db} }

func (r *eventoRepo) Crear(ctx context.Context, e *model.Evento) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *eventoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Evento, error) {
	var e model.Evento
	err := r.db.WithContext(ctx).Preload("Hitos").First(&e, id).Error
	return &e, err
}

func (r *eventoRepo) Listar(ctx context.Context, estado string) ([]model.Evento, error) {
	q := r.db.WithContext(ctx).Order("fecha_inicio ASC")
	if estado != "" && estado != "all" {
		q = q.Where("estado = ?", estado)
	}
	var eventos []model.Evento
	err := q.Find(&eventos).Error
	return eventos, err
}

func (r *eventoRepo) Actualizar(ctx context.Context, e *model.Evento) error {
	return r.db.WithContext(ctx).Omit("Hitos").Save(e).Error
}

func (r *eventoRepo) CrearHito(ctx context.Context, h *model.Hito) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *eventoRepo) ActualizarHito(ctx context.Context, h *model.Hito) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *eventoRepo) ListarConfirmadosEnVentana(ctx context.Context, desde, hasta time.Time) ([]model.Evento, error) {
	var eventos []model.Evento
	err := r.db.WithContext(ctx).
		Preload("Hitos").
		Where("estado = ? AND fecha_inicio BETWEEN ? AND ?", model.EventoConfirmado, desde, hasta).
		Order("fecha_inicio ASC").
		Find(&eventos).Error
	return eventos, err
}
