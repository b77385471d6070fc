package dto

import "github.com/shopspring/decimal"

// ─── Inter-account loans ─────────────────────────────────────────────────────

type PrestamoRequest struct {
	SubCajaDestinoID string          `json:"sub_caja_destino_id" validate:"required,uuid"`
	Monto            decimal.Decimal `json:"monto"               validate:"required,gt=0"`
	UserRecibeID     string          `json:"user_recibe_id"      validate:"required,uuid"`
	Motivo           *string         `json:"motivo"`
}

type AprobarPrestamoRequest struct {
	SubCajaOrigenID string           `json:"sub_caja_origen_id" validate:"required,uuid"`
	MontoAprobado   *decimal.Decimal `json:"monto_aprobado"     validate:"omitempty,gt=0"`
}

type RechazarPrestamoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type PrestamoResponse struct {
	PrestamoID       string          `json:"prestamo_id"`
	SubCajaDestinoID string          `json:"sub_caja_destino_id"`
	SubCajaOrigenID  *string         `json:"sub_caja_origen_id"`
	Monto            decimal.Decimal `json:"monto"`
	Motivo           *string         `json:"motivo"`
	Estado           string          `json:"estado"`
	Devuelto         bool            `json:"devuelto"`
	RequestedAt      string          `json:"requested_at"`
	ResolvedAt       *string         `json:"resolved_at"`
}

// ─── Vendor loans (sellers sharing one apertura) ─────────────────────────────

type SolicitudEfectivoRequest struct {
	AperturaID       string          `json:"apertura_id"        validate:"required,uuid"`
	VendedorPrestaID string          `json:"vendedor_presta_id" validate:"required,uuid"`
	Monto            decimal.Decimal `json:"monto"              validate:"required,gt=0"`
	Motivo           *string         `json:"motivo"`
}

type RechazarSolicitudRequest struct {
	Comentario *string `json:"comentario"`
}

type SolicitudEfectivoResponse struct {
	SolicitudID        string          `json:"solicitud_id"`
	AperturaID         string          `json:"apertura_id"`
	VendedorSolicitaID string          `json:"vendedor_solicita_id"`
	VendedorPrestaID   string          `json:"vendedor_presta_id"`
	Monto              decimal.Decimal `json:"monto"`
	Estado             string          `json:"estado"`
	CreatedAt          string          `json:"created_at"`
}

type EfectivoDisponibleResponse struct {
	AperturaID string          `json:"apertura_id"`
	VendedorID string          `json:"vendedor_id"`
	Disponible decimal.Decimal `json:"disponible"`
}
