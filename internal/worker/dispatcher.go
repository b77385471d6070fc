package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	QueueEventos = "eventos:caja"
	QueueEmail   = "jobs:email"
)

// Domain event types published on every caja state change. Delivery to
// real-time consumers is an external concern; the core only emits.
const (
	EventoAperturaAbierta    = "apertura_abierta"
	EventoAperturaCerrada    = "apertura_cerrada"
	EventoPrestamoSolicitado = "prestamo_solicitado"
	EventoPrestamoAprobado   = "prestamo_aprobado"
	EventoPrestamoRechazado  = "prestamo_rechazado"
	EventoPrestamoDevuelto   = "prestamo_devuelto"
	EventoSolicitudCreada    = "solicitud_efectivo_creada"
	EventoSolicitudAprobada  = "solicitud_efectivo_aprobada"
	EventoSolicitudRechazada = "solicitud_efectivo_rechazada"
	EventoMovimientoInterno  = "movimiento_interno"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EmailCierrePayload is the escalation report emailed to the supervisor who
// authorized a close outside the variance threshold.
type EmailCierrePayload struct {
	Para          string          `json:"para"`
	AperturaID    string          `json:"apertura_id"`
	MontoEsperado decimal.Decimal `json:"monto_esperado"`
	MontoContado  decimal.Decimal `json:"monto_contado"`
	Diferencia    decimal.Decimal `json:"diferencia"`
	ClosedAt      string          `json:"closed_at"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// PublicarEvento emits a domain event. Events are best-effort by design: a
// failed enqueue is logged and never fails the operation that produced it —
// the ledger commit already happened.
func (d *Dispatcher) PublicarEvento(ctx context.Context, tipo string, payload interface{}) {
	if d == nil || d.rdb == nil {
		return
	}
	if err := d.enqueue(ctx, QueueEventos, tipo, payload); err != nil {
		log.Error().Err(err).Str("evento", tipo).Msg("no se pudo publicar el evento")
	}
}

// EnqueueEmailCierre pushes a closing-report email job to Redis.
func (d *Dispatcher) EnqueueEmailCierre(ctx context.Context, payload EmailCierrePayload) error {
	if d == nil || d.rdb == nil {
		return nil
	}
	return d.enqueue(ctx, QueueEmail, "email_cierre", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
