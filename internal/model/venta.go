package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a read-only projection of the sales subsystem. The caja core only
// queries completed sales to compute expected cash at shift close — it never
// writes these tables.
type Venta struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendedorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Estado     string          `gorm:"type:varchar(20);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Pagos []VentaPago `gorm:"foreignKey:VentaID"`
}

// VentaPago is one payment leg of a venta, tied to the despliegue the cashier
// picked on screen.
type VentaPago struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	DespliegueDePagoID uuid.UUID       `gorm:"type:uuid;not null"`
	Monto              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

const VentaCompletada = "completada"
