package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Pool consumes the event and email queues.
type Pool struct {
	rdb    *redis.Client
	mailer *infra.Mailer
	pdfDir string
}

func NewPool(rdb *redis.Client, mailer *infra.Mailer, pdfDir string) *Pool {
	return &Pool{rdb: rdb, mailer: mailer, pdfDir: pdfDir}
}

// Start launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	queues := []string{QueueEventos, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch queue {
	case QueueEmail:
		if err := p.handleEmailCierre(job.Payload); err != nil {
			log.Error().Err(err).Msg("email de cierre falló")
			SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), 1)
		}
	default:
		// Domain events: real-time delivery is an external collaborator's
		// job; here the event is only made observable.
		log.Info().Str("evento", job.Type).RawJSON("payload", job.Payload).Msg("evento de caja")
	}
}

func (p *Pool) handleEmailCierre(raw json.RawMessage) error {
	var payload EmailCierrePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("payload inválido: %w", err)
	}

	pdfPath, err := infra.GenerarArqueoPDF(infra.ArqueoPDF{
		AperturaID:    payload.AperturaID,
		MontoEsperado: payload.MontoEsperado,
		MontoContado:  payload.MontoContado,
		Diferencia:    payload.Diferencia,
		ClosedAt:      payload.ClosedAt,
	}, p.pdfDir)
	if err != nil {
		return fmt.Errorf("generar PDF de arqueo: %w", err)
	}

	cuerpo := fmt.Sprintf(
		"Cierre de caja %s\n\nEsperado: %s\nContado: %s\nDiferencia: %s\n",
		payload.AperturaID,
		payload.MontoEsperado.StringFixed(2),
		payload.MontoContado.StringFixed(2),
		payload.Diferencia.StringFixed(2),
	)
	return p.mailer.SendArqueo(payload.Para, "Cierre de caja con diferencia autorizada", cuerpo, pdfPath)
}
