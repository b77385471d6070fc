package repository

import (
	"context"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SolicitudEfectivoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.SolicitudEfectivo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SolicitudEfectivo, error)
	FindForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.SolicitudEfectivo, error)
	Update(ctx context.Context, tx *gorm.DB, s *model.SolicitudEfectivo) error
	ListPorApertura(ctx context.Context, aperturaID uuid.UUID) ([]model.SolicitudEfectivo, error)

	CreateTransferencia(ctx context.Context, tx *gorm.DB, t *model.TransferenciaEfectivo) error
	// SumTransferencias totals the cash a seller sent (origen) or received
	// (destino) within one apertura.
	SumTransferenciasOrigen(ctx context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error)
	SumTransferenciasDestino(ctx context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error)
}

type solicitudRepo struct{ db *gorm.DB }

func NewSolicitudEfectivoRepository(db *gorm.DB) SolicitudEfectivoRepository {
	return &solicitudRepo{db: db}
}

func (r *solicitudRepo) Create(ctx context.Context, tx *gorm.DB, s *model.SolicitudEfectivo) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *solicitudRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SolicitudEfectivo, error) {
	var s model.SolicitudEfectivo
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *solicitudRepo) FindForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.SolicitudEfectivo, error) {
	var s model.SolicitudEfectivo
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error
	return &s, err
}

func (r *solicitudRepo) Update(ctx context.Context, tx *gorm.DB, s *model.SolicitudEfectivo) error {
	return tx.WithContext(ctx).Save(s).Error
}

func (r *solicitudRepo) ListPorApertura(ctx context.Context, aperturaID uuid.UUID) ([]model.SolicitudEfectivo, error) {
	var ss []model.SolicitudEfectivo
	err := r.db.WithContext(ctx).Where("apertura_id = ?", aperturaID).
		Order("created_at ASC").Find(&ss).Error
	return ss, err
}

func (r *solicitudRepo) CreateTransferencia(ctx context.Context, tx *gorm.DB, t *model.TransferenciaEfectivo) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *solicitudRepo) SumTransferenciasOrigen(ctx context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error) {
	return r.sumTransferencias(ctx, aperturaID, vendedorID, "vendedor_origen_id")
}

func (r *solicitudRepo) SumTransferenciasDestino(ctx context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error) {
	return r.sumTransferencias(ctx, aperturaID, vendedorID, "vendedor_destino_id")
}

func (r *solicitudRepo) sumTransferencias(ctx context.Context, aperturaID, vendedorID uuid.UUID, col string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.TransferenciaEfectivo{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("apertura_id = ? AND "+col+" = ?", aperturaID, vendedorID).
		Scan(&total).Error
	return total, err
}
