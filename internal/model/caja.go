package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sub-caja kinds. Every caja principal owns exactly one caja chica, created
// together with it and never deletable; secundarias are optional.
const (
	SubCajaChica      = "caja_chica"
	SubCajaSecundaria = "secundaria"
)

// CajaPrincipal is the top-level cash register of one seller. It groups the
// balance-bearing sub-cajas and is the unit the shift lifecycle operates on.
type CajaPrincipal struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre     string    `gorm:"not null"`
	Activa     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	SubCajas []SubCaja `gorm:"foreignKey:CajaPrincipalID"`
}

// SubCaja holds a denormalized balance. The balance is authoritative for live
// reads; the transaction log exists for audit and recompute.
type SubCaja struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaPrincipalID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre          string          `gorm:"not null"`
	Tipo            string          `gorm:"type:varchar(20);not null"`
	Saldo           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s *SubCaja) EsCajaChica() bool { return s.Tipo == SubCajaChica }
