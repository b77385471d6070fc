package repository

import (
	"context"
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PrestamoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Prestamo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prestamo, error)
	// FindForUpdate locks the loan row before the state check so two
	// concurrent approvals of the same request serialize.
	FindForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Prestamo, error)
	Update(ctx context.Context, tx *gorm.DB, p *model.Prestamo) error
	// ListPendientes returns pending requests addressed to a lender, skipping
	// those already past the expiry window (they can no longer be approved).
	ListPendientes(ctx context.Context, usuarioRecibeID uuid.UUID, expiracion time.Duration) ([]model.Prestamo, error)
	ListPorCajaEnVentana(ctx context.Context, tx *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) ([]model.Prestamo, error)
}

type prestamoRepo struct{ db *gorm.DB }

func NewPrestamoRepository(db *gorm.DB) PrestamoRepository { return &prestamoRepo{db: db} }

func (r *prestamoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Prestamo) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *prestamoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Prestamo, error) {
	var p model.Prestamo
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *prestamoRepo) FindForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Prestamo, error) {
	var p model.Prestamo
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

func (r *prestamoRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Prestamo) error {
	return tx.WithContext(ctx).Save(p).Error
}

func (r *prestamoRepo) ListPendientes(ctx context.Context, usuarioRecibeID uuid.UUID, expiracion time.Duration) ([]model.Prestamo, error) {
	var ps []model.Prestamo
	limite := time.Now().Add(-expiracion)
	err := r.db.WithContext(ctx).
		Where("usuario_recibe_id = ? AND estado = ? AND requested_at > ?",
			usuarioRecibeID, model.PrestamoPendiente, limite).
		Order("requested_at ASC").Find(&ps).Error
	return ps, err
}

func (r *prestamoRepo) ListPorCajaEnVentana(ctx context.Context, tx *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) ([]model.Prestamo, error) {
	var ps []model.Prestamo
	err := conn(r.db, tx).WithContext(ctx).
		Joins("JOIN sub_cajas ON sub_cajas.id = prestamos.sub_caja_destino_id OR sub_cajas.id = prestamos.sub_caja_origen_id").
		Where("sub_cajas.caja_principal_id = ?", cajaPrincipalID).
		Where("prestamos.estado = ?", model.PrestamoAprobado).
		Where("prestamos.resolved_at BETWEEN ? AND ?", desde, hasta).
		Distinct("prestamos.*").
		Find(&ps).Error
	return ps, err
}
