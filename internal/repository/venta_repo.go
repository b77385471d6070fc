package repository

import (
	"context"
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PagoPorMedio is one reconciliation row: total sold through one base payment
// method. Display configurations (despliegues) are already merged into their
// medio here.
type PagoPorMedio struct {
	MedioPagoID uuid.UUID
	Nombre      string
	EsEfectivo  bool
	Total       decimal.Decimal
}

// VentaRepository is the read-only interface onto the sales subsystem. The
// caja core consumes completed sales to compute expected cash; it never
// writes sales.
type VentaRepository interface {
	SumPagosPorMedio(ctx context.Context, tx *gorm.DB, vendedorID uuid.UUID, desde, hasta time.Time) ([]PagoPorMedio, error)
	FindDespliegue(ctx context.Context, id uuid.UUID) (*model.DespliegueDePago, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) SumPagosPorMedio(ctx context.Context, tx *gorm.DB, vendedorID uuid.UUID, desde, hasta time.Time) ([]PagoPorMedio, error) {
	var rows []PagoPorMedio
	err := conn(r.db, tx).WithContext(ctx).Model(&model.VentaPago{}).
		Select(`medio_pagos.id AS medio_pago_id, medio_pagos.nombre, medio_pagos.es_efectivo,
			COALESCE(SUM(venta_pagos.monto), 0) AS total`).
		Joins("JOIN ventas ON ventas.id = venta_pagos.venta_id").
		Joins("JOIN despliegue_de_pagos ON despliegue_de_pagos.id = venta_pagos.despliegue_de_pago_id").
		Joins("JOIN medio_pagos ON medio_pagos.id = despliegue_de_pagos.medio_pago_id").
		Where("ventas.vendedor_id = ? AND ventas.estado = ?", vendedorID, model.VentaCompletada).
		Where("ventas.created_at BETWEEN ? AND ?", desde, hasta).
		Group("medio_pagos.id, medio_pagos.nombre, medio_pagos.es_efectivo").
		Scan(&rows).Error
	return rows, err
}

func (r *ventaRepo) FindDespliegue(ctx context.Context, id uuid.UUID) (*model.DespliegueDePago, error) {
	var d model.DespliegueDePago
	err := r.db.WithContext(ctx).Preload("MedioPago").First(&d, id).Error
	return &d, err
}
