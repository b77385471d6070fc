package infra

import (
	"fmt"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies the idempotent SQL patches GORM
// cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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

// RunMigrations creates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.CajaPrincipal{},
		&model.SubCaja{},
		&model.Transaccion{},
		&model.Apertura{},
		&model.DistribucionEfectivo{},
		&model.Prestamo{},
		&model.MovimientoInterno{},
		&model.SolicitudEfectivo{},
		&model.TransferenciaEfectivo{},
		&model.MedioPago{},
		&model.DespliegueDePago{},
		&model.Venta{},
		&model.VentaPago{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// One open apertura per caja principal, enforced at the DB level.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_aperturas_abierta_unica') THEN
		    CREATE UNIQUE INDEX idx_aperturas_abierta_unica
		        ON aperturas (caja_principal_id)
		        WHERE estado = 'abierta';
		  END IF;
		END $$`,
		// One caja chica per caja principal.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sub_cajas_chica_unica') THEN
		    CREATE UNIQUE INDEX idx_sub_cajas_chica_unica
		        ON sub_cajas (caja_principal_id)
		        WHERE tipo = 'caja_chica';
		  END IF;
		END $$`,
		// The pending-loan listing filters by lender and state.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_prestamos_pendientes') THEN
		    CREATE INDEX idx_prestamos_pendientes
		        ON prestamos (usuario_recibe_id, requested_at)
		        WHERE estado = 'pendiente';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
