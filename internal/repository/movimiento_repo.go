package repository

import (
	"context"
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimientoInternoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, m *model.MovimientoInterno) error
	ListPorCajaEnVentana(ctx context.Context, tx *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) ([]model.MovimientoInterno, error)
}

type movimientoInternoRepo struct{ db *gorm.DB }

func NewMovimientoInternoRepository(db *gorm.DB) MovimientoInternoRepository {
	return &movimientoInternoRepo{db: db}
}

func (r *movimientoInternoRepo) Create(ctx context.Context, tx *gorm.DB, m *model.MovimientoInterno) error {
	return tx.WithContext(ctx).Create(m).Error
}

func (r *movimientoInternoRepo) ListPorCajaEnVentana(ctx context.Context, tx *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) ([]model.MovimientoInterno, error) {
	var ms []model.MovimientoInterno
	err := conn(r.db, tx).WithContext(ctx).
		Joins("JOIN sub_cajas ON sub_cajas.id = movimiento_internos.sub_caja_origen_id OR sub_cajas.id = movimiento_internos.sub_caja_destino_id").
		Where("sub_cajas.caja_principal_id = ?", cajaPrincipalID).
		Where("movimiento_internos.created_at BETWEEN ? AND ?", desde, hasta).
		Distinct("movimiento_internos.*").
		Find(&ms).Error
	return ms, err
}
