package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/cajaerr"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/config"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/dto"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/repository"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const RolAdministrador = "administrador"

// PrestamoService is the transfer engine: synchronous movimientos internos
// between sub-cajas of one owner, and the asynchronous request/approve/
// reject/repay loan workflow between sub-cajas of different owners.
type PrestamoService interface {
	// MovimientoInterno executes a same-owner two-leg transfer. Both ledger
	// legs commit together or not at all.
	MovimientoInterno(ctx context.Context, actorID uuid.UUID, actorRol string, req dto.MovimientoInternoRequest) error

	// Solicitar opens a loan request. The origin sub-caja is NOT chosen here:
	// the lender picks it at approval time, so a request can be placed even
	// when no single lender account currently covers the amount.
	Solicitar(ctx context.Context, actorID uuid.UUID, req dto.PrestamoRequest) (*dto.PrestamoResponse, error)
	// Aprobar moves the money. A request older than the expiry window
	// transitions to expirado instead and the approval fails.
	Aprobar(ctx context.Context, prestamoID, aprobadorID uuid.UUID, actorRol string, req dto.AprobarPrestamoRequest) (*dto.PrestamoResponse, error)
	Rechazar(ctx context.Context, prestamoID, aprobadorID uuid.UUID, actorRol string, req dto.RechazarPrestamoRequest) (*dto.PrestamoResponse, error)
	// Devolver reverses the two legs while the loan is outstanding.
	Devolver(ctx context.Context, prestamoID, actorID uuid.UUID, actorRol string) (*dto.PrestamoResponse, error)
	ListarPendientes(ctx context.Context, usuarioID uuid.UUID) ([]dto.PrestamoResponse, error)
}

type prestamoService struct {
	repo           repository.PrestamoRepository
	movimientoRepo repository.MovimientoInternoRepository
	cajaRepo       repository.CajaRepository
	aperturaRepo   repository.AperturaRepository
	ventaRepo      repository.VentaRepository
	ledger         TransaccionService
	dispatcher     *worker.Dispatcher
	cfg            *config.Config
}

func NewPrestamoService(
	repo repository.PrestamoRepository,
	movimientoRepo repository.MovimientoInternoRepository,
	cajaRepo repository.CajaRepository,
	aperturaRepo repository.AperturaRepository,
	ventaRepo repository.VentaRepository,
	ledger TransaccionService,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) PrestamoService {
	return &prestamoService{
		repo:           repo,
		movimientoRepo: movimientoRepo,
		cajaRepo:       cajaRepo,
		aperturaRepo:   aperturaRepo,
		ventaRepo:      ventaRepo,
		ledger:         ledger,
		dispatcher:     dispatcher,
		cfg:            cfg,
	}
}

func (s *prestamoService) expiracion() time.Duration {
	minutos := s.cfg.PrestamoExpiracionMinutos
	if minutos <= 0 {
		minutos = 60
	}
	return time.Duration(minutos) * time.Minute
}

// ── Movimiento interno ────────────────────────────────────────────────────────

func (s *prestamoService) MovimientoInterno(ctx context.Context, actorID uuid.UUID, actorRol string, req dto.MovimientoInternoRequest) error {
	origenID, err := uuid.Parse(req.SubCajaOrigenID)
	if err != nil {
		return fmt.Errorf("sub_caja_origen_id inválido: %w", err)
	}
	destinoID, err := uuid.Parse(req.SubCajaDestinoID)
	if err != nil {
		return fmt.Errorf("sub_caja_destino_id inválido: %w", err)
	}
	if origenID == destinoID {
		return fmt.Errorf("origen y destino deben ser sub-cajas distintas")
	}

	origen, err := s.cajaRepo.FindSubCajaByID(ctx, origenID)
	if err != nil {
		return cajaerr.ErrSubCajaNoEncontrada
	}
	destino, err := s.cajaRepo.FindSubCajaByID(ctx, destinoID)
	if err != nil {
		return cajaerr.ErrSubCajaNoEncontrada
	}

	cajaOrigen, err := s.cajaRepo.FindCajaPrincipalByID(ctx, origen.CajaPrincipalID)
	if err != nil {
		return cajaerr.ErrCajaNoEncontrada
	}
	cajaDestino, err := s.cajaRepo.FindCajaPrincipalByID(ctx, destino.CajaPrincipalID)
	if err != nil {
		return cajaerr.ErrCajaNoEncontrada
	}
	// Same owner on both sides; only that owner (or an administrador) moves
	// money between their own sub-cajas.
	if cajaOrigen.VendedorID != cajaDestino.VendedorID {
		return cajaerr.ErrPermisoDenegado
	}
	if cajaOrigen.VendedorID != actorID && actorRol != RolAdministrador {
		return cajaerr.ErrPermisoDenegado
	}

	saldoVendedor, err := s.ledger.SaldoVendedor(ctx, origenID, cajaOrigen.VendedorID)
	if err != nil {
		return err
	}
	if saldoVendedor.LessThan(req.Monto) {
		return cajaerr.ErrSaldoInsuficiente
	}

	var despliegueOrigen, despliegueDestino *uuid.UUID
	if req.DespliegueDePagoOrigenID != nil {
		id, err := uuid.Parse(*req.DespliegueDePagoOrigenID)
		if err != nil {
			return fmt.Errorf("despliegue_de_pago_id inválido: %w", err)
		}
		if _, err := s.ventaRepo.FindDespliegue(ctx, id); err != nil {
			return fmt.Errorf("despliegue de pago no encontrado")
		}
		despliegueOrigen = &id
	}
	if req.DespliegueDePagoDestinoID != nil {
		id, err := uuid.Parse(*req.DespliegueDePagoDestinoID)
		if err != nil {
			return fmt.Errorf("despliegue_de_pago_destino_id inválido: %w", err)
		}
		if _, err := s.ventaRepo.FindDespliegue(ctx, id); err != nil {
			return fmt.Errorf("despliegue de pago no encontrado")
		}
		despliegueDestino = &id
	}

	mov := &model.MovimientoInterno{
		SubCajaOrigenID:           origenID,
		SubCajaDestinoID:          destinoID,
		Monto:                     req.Monto,
		DespliegueDePagoOrigenID:  despliegueOrigen,
		DespliegueDePagoDestinoID: despliegueDestino,
		Justificacion:             req.Justificacion,
		UsuarioID:                 actorID,
	}

	err = runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		if err := s.movimientoRepo.Create(ctx, tx, mov); err != nil {
			return err
		}
		ref := model.RefMovimientoInterno
		if _, err := s.ledger.Registrar(ctx, tx, RegistrarTransaccion{
			SubCajaID:      origenID,
			Tipo:           model.TransaccionEgreso,
			Monto:          req.Monto,
			Descripcion:    req.Justificacion,
			ReferenciaID:   &mov.ID,
			ReferenciaTipo: &ref,
			UsuarioID:      actorID,
		}); err != nil {
			return err
		}
		_, err := s.ledger.Registrar(ctx, tx, RegistrarTransaccion{
			SubCajaID:      destinoID,
			Tipo:           model.TransaccionIngreso,
			Monto:          req.Monto,
			Descripcion:    req.Justificacion,
			ReferenciaID:   &mov.ID,
			ReferenciaTipo: &ref,
			UsuarioID:      actorID,
		})
		return err
	})
	if err != nil {
		return err
	}

	s.dispatcher.PublicarEvento(ctx, worker.EventoMovimientoInterno, mov)
	return nil
}

// ── Préstamos entre cajas ─────────────────────────────────────────────────────

func (s *prestamoService) Solicitar(ctx context.Context, actorID uuid.UUID, req dto.PrestamoRequest) (*dto.PrestamoResponse, error) {
	destinoID, err := uuid.Parse(req.SubCajaDestinoID)
	if err != nil {
		return nil, fmt.Errorf("sub_caja_destino_id inválido: %w", err)
	}
	recibeID, err := uuid.Parse(req.UserRecibeID)
	if err != nil {
		return nil, fmt.Errorf("user_recibe_id inválido: %w", err)
	}

	destino, err := s.cajaRepo.FindSubCajaByID(ctx, destinoID)
	if err != nil {
		return nil, cajaerr.ErrSubCajaNoEncontrada
	}
	// The borrower side must be mid-shift, waiting to receive the cash.
	if _, err := s.aperturaRepo.FindAbiertaPorCaja(ctx, destino.CajaPrincipalID); err != nil {
		return nil, cajaerr.ErrSinAperturaActiva
	}

	prestamo := &model.Prestamo{
		SubCajaDestinoID:  destinoID,
		Monto:             req.Monto,
		Motivo:            req.Motivo,
		Estado:            model.PrestamoPendiente,
		UsuarioSolicitaID: actorID,
		UsuarioRecibeID:   recibeID,
		RequestedAt:       time.Now(),
	}
	if err := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, prestamo)
	}); err != nil {
		return nil, err
	}

	s.dispatcher.PublicarEvento(ctx, worker.EventoPrestamoSolicitado, prestamo)
	return prestamoToResponse(prestamo), nil
}

func (s *prestamoService) Aprobar(ctx context.Context, prestamoID, aprobadorID uuid.UUID, actorRol string, req dto.AprobarPrestamoRequest) (*dto.PrestamoResponse, error) {
	origenID, err := uuid.Parse(req.SubCajaOrigenID)
	if err != nil {
		return nil, fmt.Errorf("sub_caja_origen_id inválido: %w", err)
	}

	var prestamo *model.Prestamo
	var expirado bool
	err = runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		// Lock the loan row before the state check so two concurrent
		// approvals serialize.
		prestamo, err = s.repo.FindForUpdate(ctx, tx, prestamoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cajaerr.ErrPrestamoNoEncontrado
			}
			return err
		}
		if prestamo.UsuarioRecibeID != aprobadorID && actorRol != RolAdministrador {
			return cajaerr.ErrPermisoDenegado
		}
		switch prestamo.Estado {
		case model.PrestamoPendiente:
		case model.PrestamoExpirado:
			return cajaerr.ErrPrestamoExpirado
		default:
			return cajaerr.ErrPrestamoProcesado
		}

		now := time.Now()
		if now.Sub(prestamo.RequestedAt) > s.expiracion() {
			// Too old: the request dies here, but the transition must
			// still commit — so no error inside the transaction.
			prestamo.Estado = model.PrestamoExpirado
			prestamo.ResolvedAt = &now
			expirado = true
			return s.repo.Update(ctx, tx, prestamo)
		}

		origen, err := s.cajaRepo.FindSubCajaByID(ctx, origenID)
		if err != nil {
			return cajaerr.ErrSubCajaNoEncontrada
		}
		cajaOrigen, err := s.cajaRepo.FindCajaPrincipalByID(ctx, origen.CajaPrincipalID)
		if err != nil {
			return cajaerr.ErrCajaNoEncontrada
		}
		// The chosen origin must belong to the approving lender.
		if cajaOrigen.VendedorID != aprobadorID && actorRol != RolAdministrador {
			return cajaerr.ErrPermisoDenegado
		}

		if req.MontoAprobado != nil {
			prestamo.Monto = *req.MontoAprobado
		}

		ref := model.RefPrestamo
		if _, err := s.ledger.Registrar(ctx, tx, RegistrarTransaccion{
			SubCajaID:      origenID,
			Tipo:           model.TransaccionEgreso,
			Monto:          prestamo.Monto,
			Descripcion:    "Préstamo otorgado",
			ReferenciaID:   &prestamo.ID,
			ReferenciaTipo: &ref,
			UsuarioID:      aprobadorID,
		}); err != nil {
			return err
		}
		if _, err := s.ledger.Registrar(ctx, tx, RegistrarTransaccion{
			SubCajaID:      prestamo.SubCajaDestinoID,
			Tipo:           model.TransaccionIngreso,
			Monto:          prestamo.Monto,
			Descripcion:    "Préstamo recibido",
			ReferenciaID:   &prestamo.ID,
			ReferenciaTipo: &ref,
			UsuarioID:      aprobadorID,
		}); err != nil {
			return err
		}

		prestamo.SubCajaOrigenID = &origenID
		prestamo.Estado = model.PrestamoAprobado
		prestamo.ResolvedAt = &now
		return s.repo.Update(ctx, tx, prestamo)
	})
	if err != nil {
		return nil, err
	}
	if expirado {
		return nil, cajaerr.ErrPrestamoExpirado
	}

	s.dispatcher.PublicarEvento(ctx, worker.EventoPrestamoAprobado, prestamo)
	return prestamoToResponse(prestamo), nil
}

func (s *prestamoService) Rechazar(ctx context.Context, prestamoID, aprobadorID uuid.UUID, actorRol string, req dto.RechazarPrestamoRequest) (*dto.PrestamoResponse, error) {
	var prestamo *model.Prestamo
	err := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		prestamo, err = s.repo.FindForUpdate(ctx, tx, prestamoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cajaerr.ErrPrestamoNoEncontrado
			}
			return err
		}
		if prestamo.UsuarioRecibeID != aprobadorID && actorRol != RolAdministrador {
			return cajaerr.ErrPermisoDenegado
		}
		if prestamo.Estado != model.PrestamoPendiente {
			return cajaerr.ErrPrestamoProcesado
		}

		now := time.Now()
		prestamo.Estado = model.PrestamoRechazado
		prestamo.MotivoRechazo = &req.Motivo
		prestamo.ResolvedAt = &now
		return s.repo.Update(ctx, tx, prestamo)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.PublicarEvento(ctx, worker.EventoPrestamoRechazado, prestamo)
	return prestamoToResponse(prestamo), nil
}

func (s *prestamoService) Devolver(ctx context.Context, prestamoID, actorID uuid.UUID, actorRol string) (*dto.PrestamoResponse, error) {
	var prestamo *model.Prestamo
	err := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		prestamo, err = s.repo.FindForUpdate(ctx, tx, prestamoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cajaerr.ErrPrestamoNoEncontrado
			}
			return err
		}
		if prestamo.Estado != model.PrestamoAprobado || prestamo.Devuelto || prestamo.SubCajaOrigenID == nil {
			return cajaerr.ErrPrestamoNoDevolvible
		}

		destino, err := s.cajaRepo.FindSubCajaByID(ctx, prestamo.SubCajaDestinoID)
		if err != nil {
			return cajaerr.ErrSubCajaNoEncontrada
		}
		cajaDestino, err := s.cajaRepo.FindCajaPrincipalByID(ctx, destino.CajaPrincipalID)
		if err != nil {
			return cajaerr.ErrCajaNoEncontrada
		}
		// Only the borrower returns the money.
		if cajaDestino.VendedorID != actorID && actorRol != RolAdministrador {
			return cajaerr.ErrPermisoDenegado
		}

		ref := model.RefDevolucionPrestamo
		if _, err := s.ledger.Registrar(ctx, tx, RegistrarTransaccion{
			SubCajaID:      prestamo.SubCajaDestinoID,
			Tipo:           model.TransaccionEgreso,
			Monto:          prestamo.Monto,
			Descripcion:    "Devolución de préstamo",
			ReferenciaID:   &prestamo.ID,
			ReferenciaTipo: &ref,
			UsuarioID:      actorID,
		}); err != nil {
			return err
		}
		if _, err := s.ledger.Registrar(ctx, tx, RegistrarTransaccion{
			SubCajaID:      *prestamo.SubCajaOrigenID,
			Tipo:           model.TransaccionIngreso,
			Monto:          prestamo.Monto,
			Descripcion:    "Devolución de préstamo",
			ReferenciaID:   &prestamo.ID,
			ReferenciaTipo: &ref,
			UsuarioID:      actorID,
		}); err != nil {
			return err
		}

		now := time.Now()
		prestamo.Devuelto = true
		prestamo.DevueltoAt = &now
		return s.repo.Update(ctx, tx, prestamo)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.PublicarEvento(ctx, worker.EventoPrestamoDevuelto, prestamo)
	return prestamoToResponse(prestamo), nil
}

func (s *prestamoService) ListarPendientes(ctx context.Context, usuarioID uuid.UUID) ([]dto.PrestamoResponse, error) {
	prestamos, err := s.repo.ListPendientes(ctx, usuarioID, s.expiracion())
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PrestamoResponse, 0, len(prestamos))
	for i := range prestamos {
		resp = append(resp, *prestamoToResponse(&prestamos[i]))
	}
	return resp, nil
}

func prestamoToResponse(p *model.Prestamo) *dto.PrestamoResponse {
	resp := &dto.PrestamoResponse{
		PrestamoID:       p.ID.String(),
		SubCajaDestinoID: p.SubCajaDestinoID.String(),
		Monto:            p.Monto,
		Motivo:           p.Motivo,
		Estado:           p.Estado,
		Devuelto:         p.Devuelto,
		RequestedAt:      p.RequestedAt.Format(time.RFC3339),
	}
	if p.SubCajaOrigenID != nil {
		origen := p.SubCajaOrigenID.String()
		resp.SubCajaOrigenID = &origen
	}
	if p.ResolvedAt != nil {
		t := p.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &t
	}
	return resp
}
