package repository

import (
	"context"
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransaccionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.Transaccion) error
	ListBySubCaja(ctx context.Context, subCajaID uuid.UUID) ([]model.Transaccion, error)

	// SaldoVendedorEntradas sums the seller's own entries on a sub-caja
	// (ingresos − egresos), excluding apertura references so the float share
	// tracked in distribuciones is not double-counted.
	SaldoVendedorEntradas(ctx context.Context, subCajaID, vendedorID uuid.UUID) (decimal.Decimal, error)

	// SumManualIngresos / SumManualEgresos total the hand-registered movements
	// across all sub-cajas of a caja principal within a window. Entries derived
	// from sales, aperturas, loans and internal movements are excluded — those
	// either enter the reconciliation through their own channel or are asset
	// transfers that do not belong in the P&L. The close path passes its open
	// tx so the totals match exactly what that transaction commits over.
	SumManualIngresos(ctx context.Context, tx *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) (decimal.Decimal, error)
	SumManualEgresos(ctx context.Context, tx *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) (decimal.Decimal, error)
}

type transaccionRepo struct{ db *gorm.DB }

func NewTransaccionRepository(db *gorm.DB) TransaccionRepository { return &transaccionRepo{db: db} }

func (r *transaccionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Transaccion) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *transaccionRepo) ListBySubCaja(ctx context.Context, subCajaID uuid.UUID) ([]model.Transaccion, error) {
	var ts []model.Transaccion
	err := r.db.WithContext(ctx).Where("sub_caja_id = ?", subCajaID).
		Order("created_at ASC").Find(&ts).Error
	return ts, err
}

func (r *transaccionRepo) SaldoVendedorEntradas(ctx context.Context, subCajaID, vendedorID uuid.UUID) (decimal.Decimal, error) {
	var saldo decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Transaccion{}).
		Select(`COALESCE(SUM(CASE WHEN tipo = 'ingreso' THEN monto ELSE -monto END), 0)`).
		Where("sub_caja_id = ? AND usuario_id = ?", subCajaID, vendedorID).
		Where("referencia_tipo IS DISTINCT FROM ?", model.RefApertura).
		Scan(&saldo).Error
	return saldo, err
}

// nonManualRefs are the reference kinds excluded from the manual totals.
var nonManualRefs = []string{
	model.RefVenta, model.RefApertura, model.RefPrestamo,
	model.RefDevolucionPrestamo, model.RefMovimientoInterno, model.RefPrestamoVendedor,
}

func (r *transaccionRepo) sumManual(ctx context.Context, tx *gorm.DB, cajaPrincipalID uuid.UUID, tipo string, desde, hasta time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := conn(r.db, tx).WithContext(ctx).Model(&model.Transaccion{}).
		Select("COALESCE(SUM(transaccions.monto), 0)").
		Joins("JOIN sub_cajas ON sub_cajas.id = transaccions.sub_caja_id").
		Where("sub_cajas.caja_principal_id = ?", cajaPrincipalID).
		Where("transaccions.tipo = ?", tipo).
		Where("transaccions.referencia_tipo IS NULL OR transaccions.referencia_tipo NOT IN ?", nonManualRefs).
		Where("transaccions.created_at BETWEEN ? AND ?", desde, hasta).
		Scan(&total).Error
	return total, err
}

func (r *transaccionRepo) SumManualIngresos(ctx context.Context, tx *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) (decimal.Decimal, error) {
	return r.sumManual(ctx, tx, cajaPrincipalID, model.TransaccionIngreso, desde, hasta)
}

func (r *transaccionRepo) SumManualEgresos(ctx context.Context, tx *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) (decimal.Decimal, error) {
	return r.sumManual(ctx, tx, cajaPrincipalID, model.TransaccionEgreso, desde, hasta)
}
