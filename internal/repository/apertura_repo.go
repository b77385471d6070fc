package repository

import (
	"context"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AperturaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, a *model.Apertura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Apertura, error)
	// FindForUpdate locks the apertura row so two concurrent closes (or a
	// close racing a top-up) serialize.
	FindForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Apertura, error)
	FindAbiertaPorCaja(ctx context.Context, cajaPrincipalID uuid.UUID) (*model.Apertura, error)
	FindAbiertaPorVendedor(ctx context.Context, vendedorID uuid.UUID) (*model.Apertura, error)
	Update(ctx context.Context, tx *gorm.DB, a *model.Apertura) error

	CreateDistribucion(ctx context.Context, tx *gorm.DB, d *model.DistribucionEfectivo) error
	SumDistribucion(ctx context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error)
	ListDistribuciones(ctx context.Context, aperturaID uuid.UUID) ([]model.DistribucionEfectivo, error)

	ListCerradas(ctx context.Context, page, limit int) ([]model.Apertura, int64, error)
}

type aperturaRepo struct{ db *gorm.DB }

func NewAperturaRepository(db *gorm.DB) AperturaRepository { return &aperturaRepo{db: db} }

func (r *aperturaRepo) Create(ctx context.Context, tx *gorm.DB, a *model.Apertura) error {
	return tx.WithContext(ctx).Create(a).Error
}

func (r *aperturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Apertura, error) {
	var a model.Apertura
	err := r.db.WithContext(ctx).Preload("Distribuciones").First(&a, id).Error
	return &a, err
}

func (r *aperturaRepo) FindForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Apertura, error) {
	var a model.Apertura
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, id).Error
	return &a, err
}

func (r *aperturaRepo) FindAbiertaPorCaja(ctx context.Context, cajaPrincipalID uuid.UUID) (*model.Apertura, error) {
	var a model.Apertura
	err := r.db.WithContext(ctx).
		Where("caja_principal_id = ? AND estado = ?", cajaPrincipalID, model.AperturaAbierta).
		First(&a).Error
	return &a, err
}

func (r *aperturaRepo) FindAbiertaPorVendedor(ctx context.Context, vendedorID uuid.UUID) (*model.Apertura, error) {
	var a model.Apertura
	err := r.db.WithContext(ctx).
		Joins("JOIN caja_principals ON caja_principals.id = aperturas.caja_principal_id").
		Where("caja_principals.vendedor_id = ? AND aperturas.estado = ?", vendedorID, model.AperturaAbierta).
		Preload("Distribuciones").
		First(&a).Error
	return &a, err
}

func (r *aperturaRepo) Update(ctx context.Context, tx *gorm.DB, a *model.Apertura) error {
	return tx.WithContext(ctx).Save(a).Error
}

func (r *aperturaRepo) CreateDistribucion(ctx context.Context, tx *gorm.DB, d *model.DistribucionEfectivo) error {
	return tx.WithContext(ctx).Create(d).Error
}

func (r *aperturaRepo) SumDistribucion(ctx context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.DistribucionEfectivo{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("apertura_id = ? AND vendedor_id = ?", aperturaID, vendedorID).
		Scan(&total).Error
	return total, err
}

func (r *aperturaRepo) ListDistribuciones(ctx context.Context, aperturaID uuid.UUID) ([]model.DistribucionEfectivo, error) {
	var ds []model.DistribucionEfectivo
	err := r.db.WithContext(ctx).Where("apertura_id = ?", aperturaID).
		Order("created_at ASC").Find(&ds).Error
	return ds, err
}

func (r *aperturaRepo) ListCerradas(ctx context.Context, page, limit int) ([]model.Apertura, int64, error) {
	var as []model.Apertura
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Apertura{}).Where("estado = ?", model.AperturaCerrada)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("closed_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&as).Error
	return as, total, err
}
