package infra

import (
	"fmt"

	"gastroplan/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches for what
// AutoMigrate cannot express. TranslateError is on so a unique violation
// surfaces as gorm.ErrDuplicatedKey, which the order repository relies on to
// detect sequence-allocation races.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies AutoMigrate plus the manual patches. Exposed so the
// integration suite can run it against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on Postgres < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Elaboracion{},
		&model.Receta{},
		&model.ComponenteReceta{},
		&model.Evento{},
		&model.Hito{},
		&model.ComandaGastronomica{},
		&model.LineaComanda{},
		&model.ComandaPristina{},
		&model.LineaPristina{},
		&model.OrdenFabricacion{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// GIN index backing the evento_ids && ARRAY[...] overlap filter the
		// planning snapshot query issues.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ordenes_evento_ids') THEN
		    CREATE INDEX idx_ordenes_evento_ids ON ordenes_fabricacion USING GIN (evento_ids);
		  END IF;
		END $$`,
		// one recipe line order per comanda position
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_lineas_comanda_orden') THEN
		    CREATE INDEX idx_lineas_comanda_orden ON linea_comandas (comanda_id, orden);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
