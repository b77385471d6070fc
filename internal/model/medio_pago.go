package model

import (
	"time"

	"github.com/google/uuid"
)

// MedioPago is the underlying payment provider/account (the "base" method).
// Several despliegues can map to one medio; reconciliation groups by medio so
// display configurations do not fragment the totals.
type MedioPago struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string    `gorm:"not null"`
	EsEfectivo bool      `gorm:"not null;default:false"`
	Activo     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
}

// DespliegueDePago is one display configuration of a medio de pago as shown
// at the point of sale (e.g. two QR codes backed by the same bank account).
type DespliegueDePago struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MedioPagoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre      string    `gorm:"not null"`
	Activo      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time

	MedioPago MedioPago `gorm:"foreignKey:MedioPagoID"`
}
