package repository

import (
	"context"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CajaRepository interface {
	CreateCajaPrincipal(ctx context.Context, tx *gorm.DB, c *model.CajaPrincipal) error
	FindCajaPrincipalByID(ctx context.Context, id uuid.UUID) (*model.CajaPrincipal, error)
	FindCajaPrincipalByVendedor(ctx context.Context, vendedorID uuid.UUID) (*model.CajaPrincipal, error)

	CreateSubCaja(ctx context.Context, tx *gorm.DB, s *model.SubCaja) error
	FindSubCajaByID(ctx context.Context, id uuid.UUID) (*model.SubCaja, error)
	// FindSubCajaForUpdate takes a row-level lock on the sub-caja for the
	// duration of tx. Every balance-affecting write goes through this lock so
	// concurrent transfers against the same sub-caja serialize.
	FindSubCajaForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.SubCaja, error)
	FindCajaChica(ctx context.Context, cajaPrincipalID uuid.UUID) (*model.SubCaja, error)
	ExistsSubCajaNombre(ctx context.Context, cajaPrincipalID uuid.UUID, nombre string) (bool, error)
	UpdateSaldo(ctx context.Context, tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error
	DeleteSubCaja(ctx context.Context, id uuid.UUID) error
	ListSubCajas(ctx context.Context, cajaPrincipalID uuid.UUID) ([]model.SubCaja, error)

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) CreateCajaPrincipal(ctx context.Context, tx *gorm.DB, c *model.CajaPrincipal) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindCajaPrincipalByID(ctx context.Context, id uuid.UUID) (*model.CajaPrincipal, error) {
	var c model.CajaPrincipal
	err := r.db.WithContext(ctx).Preload("SubCajas").First(&c, id).Error
	return &c, err
}

func (r *cajaRepo) FindCajaPrincipalByVendedor(ctx context.Context, vendedorID uuid.UUID) (*model.CajaPrincipal, error) {
	var c model.CajaPrincipal
	err := r.db.WithContext(ctx).Preload("SubCajas").
		Where("vendedor_id = ? AND activa", vendedorID).First(&c).Error
	return &c, err
}

func (r *cajaRepo) CreateSubCaja(ctx context.Context, tx *gorm.DB, s *model.SubCaja) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) FindSubCajaByID(ctx context.Context, id uuid.UUID) (*model.SubCaja, error) {
	var s model.SubCaja
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *cajaRepo) FindSubCajaForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.SubCaja, error) {
	var s model.SubCaja
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error
	return &s, err
}

func (r *cajaRepo) FindCajaChica(ctx context.Context, cajaPrincipalID uuid.UUID) (*model.SubCaja, error) {
	var s model.SubCaja
	err := r.db.WithContext(ctx).
		Where("caja_principal_id = ? AND tipo = ?", cajaPrincipalID, model.SubCajaChica).
		First(&s).Error
	return &s, err
}

func (r *cajaRepo) ExistsSubCajaNombre(ctx context.Context, cajaPrincipalID uuid.UUID, nombre string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SubCaja{}).
		Where("caja_principal_id = ? AND nombre = ?", cajaPrincipalID, nombre).
		Count(&count).Error
	return count > 0, err
}

func (r *cajaRepo) UpdateSaldo(ctx context.Context, tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.SubCaja{}).Where("id = ?", id).
		Update("saldo", saldo).Error
}

func (r *cajaRepo) DeleteSubCaja(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SubCaja{}, id).Error
}

func (r *cajaRepo) ListSubCajas(ctx context.Context, cajaPrincipalID uuid.UUID) ([]model.SubCaja, error) {
	var subs []model.SubCaja
	err := r.db.WithContext(ctx).Where("caja_principal_id = ?", cajaPrincipalID).
		Order("created_at ASC").Find(&subs).Error
	return subs, err
}
