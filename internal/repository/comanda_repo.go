package repository

import (
	"context"
	"time"

	"gastroplan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComandaRepository interface {
	Guardar(ctx context.Context, c *model.ComandaGastronomica) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ComandaGastronomica, error)
	ListarPorEventos(ctx context.Context, eventoIDs []uuid.UUID) ([]model.ComandaGastronomica, error)
	// CapturarPristinas freezes the current recipe lines of every comanda of
	// the given events, replacing any previous capture. Called when
	// manufacturing orders are generated or a deviation is resolved.
	CapturarPristinas(ctx context.Context, eventoIDs []uuid.UUID) error
	ListarPristinasPorEventos(ctx context.Context, eventoIDs []uuid.UUID) ([]model.ComandaPristina, error)
}

type comandaRepo struct{ db *gorm.DB }

func NewComandaRepository(db *gorm.DB) ComandaRepository { return &comandaRepo{db: db} }

// Guardar replaces the comanda and its full line list in one transaction.
// Lines are rewritten wholesale: the kitchen edits the comanda as a document.
func (r *comandaRepo) Guardar(ctx context.Context, c *model.ComandaGastronomica) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lineas").Save(c).Error; err != nil {
			return err
		}
		if err := tx.Where("comanda_id = ?", c.ID).Delete(&model.LineaComanda{}).Error; err != nil {
			return err
		}
		for i := range c.Lineas {
			c.Lineas[i].ComandaID = c.ID
			if err := tx.Create(&c.Lineas[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *comandaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ComandaGastronomica, error) {
	var c model.ComandaGastronomica
	err := r.db.WithContext(ctx).Preload("Lineas", func(db *gorm.DB) *gorm.DB {
		return db.Order("orden ASC")
	}).First(&c, id).Error
	return &c, err
}

func (r *comandaRepo) ListarPorEventos(ctx context.Context, eventoIDs []uuid.UUID) ([]model.ComandaGastronomica, error) {
	if len(eventoIDs) == 0 {
		return nil, nil
	}
	var comandas []model.ComandaGastronomica
	err := r.db.WithContext(ctx).Preload("Lineas", func(db *gorm.DB) *gorm.DB {
		return db.Order("orden ASC")
	}).Where("evento_id IN ?", eventoIDs).Find(&comandas).Error
	return comandas, err
}

func (r *comandaRepo) CapturarPristinas(ctx context.Context, eventoIDs []uuid.UUID) error {
	comandas, err := r.ListarPorEventos(ctx, eventoIDs)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range comandas {
			if err := tx.Where("comanda_id = ?", c.ID).Delete(&model.LineaPristina{}).Error; err != nil {
				return err
			}
			if err := tx.Where("comanda_id = ?", c.ID).Delete(&model.ComandaPristina{}).Error; err != nil {
				return err
			}
			pristina := model.ComandaPristina{
				ComandaID:   c.ID,
				EventoID:    c.EventoID,
				Etiqueta:    c.Etiqueta,
				CapturadaEn: time.Now().UTC(),
			}
			if err := tx.Create(&pristina).Error; err != nil {
				return err
			}
			for _, l := range c.Lineas {
				if !l.EsReceta() {
					continue
				}
				linea := model.LineaPristina{ComandaID: c.ID, RecetaID: *l.RecetaID, Cantidad: l.Cantidad}
				if err := tx.Create(&linea).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *comandaRepo) ListarPristinasPorEventos(ctx context.Context, eventoIDs []uuid.UUID) ([]model.ComandaPristina, error) {
	if len(eventoIDs) == 0 {
		return nil, nil
	}
	var pristinas []model.ComandaPristina
	err := r.db.WithContext(ctx).Preload("Lineas").
		Where("evento_id IN ?", eventoIDs).Find(&pristinas).Error
	return pristinas, err
}
