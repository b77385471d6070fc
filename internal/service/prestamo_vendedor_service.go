package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/cajaerr"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/dto"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/repository"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PrestamoVendedorService handles cash loans between two sellers sharing one
// open apertura. Money never leaves the shared caja chica: approval records a
// transferencia plus two ledger entries on the same sub-caja, one attributed
// to each seller, shifting their per-seller balances.
type PrestamoVendedorService interface {
	Solicitar(ctx context.Context, actorID uuid.UUID, req dto.SolicitudEfectivoRequest) (*dto.SolicitudEfectivoResponse, error)
	// Aprobar re-checks the lender's available cash before moving anything:
	// it may have dropped since the request was placed.
	Aprobar(ctx context.Context, solicitudID, actorID uuid.UUID) (*dto.SolicitudEfectivoResponse, error)
	Rechazar(ctx context.Context, solicitudID, actorID uuid.UUID, req dto.RechazarSolicitudRequest) (*dto.SolicitudEfectivoResponse, error)
	// Disponible is the seller's lendable cash inside one apertura:
	// float share − cash lent out + cash received.
	Disponible(ctx context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error)
}

type prestamoVendedorService struct {
	repo         repository.SolicitudEfectivoRepository
	aperturaRepo repository.AperturaRepository
	cajaRepo     repository.CajaRepository
	ledger       TransaccionService
	dispatcher   *worker.Dispatcher
}

func NewPrestamoVendedorService(
	repo repository.SolicitudEfectivoRepository,
	aperturaRepo repository.AperturaRepository,
	cajaRepo repository.CajaRepository,
	ledger TransaccionService,
	dispatcher *worker.Dispatcher,
) PrestamoVendedorService {
	return &prestamoVendedorService{
		repo:         repo,
		aperturaRepo: aperturaRepo,
		cajaRepo:     cajaRepo,
		ledger:       ledger,
		dispatcher:   dispatcher,
	}
}

func (s *prestamoVendedorService) Disponible(ctx context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error) {
	share, err := s.aperturaRepo.SumDistribucion(ctx, aperturaID, vendedorID)
	if err != nil {
		return decimal.Zero, err
	}
	prestado, err := s.repo.SumTransferenciasOrigen(ctx, aperturaID, vendedorID)
	if err != nil {
		return decimal.Zero, err
	}
	recibido, err := s.repo.SumTransferenciasDestino(ctx, aperturaID, vendedorID)
	if err != nil {
		return decimal.Zero, err
	}
	return share.Sub(prestado).Add(recibido), nil
}

func (s *prestamoVendedorService) Solicitar(ctx context.Context, actorID uuid.UUID, req dto.SolicitudEfectivoRequest) (*dto.SolicitudEfectivoResponse, error) {
	aperturaID, err := uuid.Parse(req.AperturaID)
	if err != nil {
		return nil, fmt.Errorf("apertura_id inválido: %w", err)
	}
	prestaID, err := uuid.Parse(req.VendedorPrestaID)
	if err != nil {
		return nil, fmt.Errorf("vendedor_presta_id inválido: %w", err)
	}
	if prestaID == actorID {
		return nil, fmt.Errorf("no se puede solicitar efectivo a uno mismo")
	}

	apertura, err := s.aperturaRepo.FindByID(ctx, aperturaID)
	if err != nil {
		return nil, cajaerr.ErrAperturaNoEncontrada
	}
	if apertura.Estado != model.AperturaAbierta {
		return nil, cajaerr.ErrAperturaCerrada
	}

	disponible, err := s.Disponible(ctx, aperturaID, prestaID)
	if err != nil {
		return nil, err
	}
	if disponible.LessThan(req.Monto) {
		return nil, cajaerr.ErrEfectivoInsuficiente
	}

	solicitud := &model.SolicitudEfectivo{
		AperturaID:         aperturaID,
		VendedorSolicitaID: actorID,
		VendedorPrestaID:   prestaID,
		Monto:              req.Monto,
		Motivo:             req.Motivo,
		Estado:             model.SolicitudPendiente,
	}
	if err := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, solicitud)
	}); err != nil {
		return nil, err
	}

	s.dispatcher.PublicarEvento(ctx, worker.EventoSolicitudCreada, solicitud)
	return solicitudToResponse(solicitud), nil
}

func (s *prestamoVendedorService) Aprobar(ctx context.Context, solicitudID, actorID uuid.UUID) (*dto.SolicitudEfectivoResponse, error) {
	var solicitud *model.SolicitudEfectivo
	err := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		solicitud, err = s.repo.FindForUpdate(ctx, tx, solicitudID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cajaerr.ErrSolicitudNoEncontrada
			}
			return err
		}
		if solicitud.VendedorPrestaID != actorID {
			return cajaerr.ErrPermisoDenegado
		}
		if solicitud.Estado != model.SolicitudPendiente {
			return cajaerr.ErrSolicitudProcesada
		}

		apertura, err := s.aperturaRepo.FindByID(ctx, solicitud.AperturaID)
		if err != nil {
			return cajaerr.ErrAperturaNoEncontrada
		}
		if apertura.Estado != model.AperturaAbierta {
			return cajaerr.ErrAperturaCerrada
		}

		// Mandatory re-check: another approval may have drained the
		// lender's share since this request passed its first check.
		disponible, err := s.Disponible(ctx, solicitud.AperturaID, actorID)
		if err != nil {
			return err
		}
		if disponible.LessThan(solicitud.Monto) {
			return cajaerr.ErrEfectivoInsuficiente
		}

		transferencia := &model.TransferenciaEfectivo{
			SolicitudID:       solicitud.ID,
			AperturaID:        solicitud.AperturaID,
			VendedorOrigenID:  solicitud.VendedorPrestaID,
			VendedorDestinoID: solicitud.VendedorSolicitaID,
			Monto:             solicitud.Monto,
		}
		if err := s.repo.CreateTransferencia(ctx, tx, transferencia); err != nil {
			return err
		}

		// Both legs hit the shared caja chica: account balance is unchanged,
		// per-seller balances shift.
		ref := model.RefPrestamoVendedor
		if _, err := s.ledger.Registrar(ctx, tx, RegistrarTransaccion{
			SubCajaID:      apertura.SubCajaID,
			Tipo:           model.TransaccionEgreso,
			Monto:          solicitud.Monto,
			Descripcion:    "Préstamo de efectivo entre vendedores",
			ReferenciaID:   &solicitud.ID,
			ReferenciaTipo: &ref,
			UsuarioID:      solicitud.VendedorPrestaID,
		}); err != nil {
			return err
		}
		if _, err := s.ledger.Registrar(ctx, tx, RegistrarTransaccion{
			SubCajaID:      apertura.SubCajaID,
			Tipo:           model.TransaccionIngreso,
			Monto:          solicitud.Monto,
			Descripcion:    "Préstamo de efectivo entre vendedores",
			ReferenciaID:   &solicitud.ID,
			ReferenciaTipo: &ref,
			UsuarioID:      solicitud.VendedorSolicitaID,
		}); err != nil {
			return err
		}

		now := time.Now()
		solicitud.Estado = model.SolicitudAprobada
		solicitud.ResolvedAt = &now
		return s.repo.Update(ctx, tx, solicitud)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.PublicarEvento(ctx, worker.EventoSolicitudAprobada, solicitud)
	return solicitudToResponse(solicitud), nil
}

func (s *prestamoVendedorService) Rechazar(ctx context.Context, solicitudID, actorID uuid.UUID, req dto.RechazarSolicitudRequest) (*dto.SolicitudEfectivoResponse, error) {
	var solicitud *model.SolicitudEfectivo
	err := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		solicitud, err = s.repo.FindForUpdate(ctx, tx, solicitudID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cajaerr.ErrSolicitudNoEncontrada
			}
			return err
		}
		if solicitud.VendedorPrestaID != actorID {
			return cajaerr.ErrPermisoDenegado
		}
		if solicitud.Estado != model.SolicitudPendiente {
			return cajaerr.ErrSolicitudProcesada
		}

		now := time.Now()
		solicitud.Estado = model.SolicitudRechazada
		solicitud.Comentario = req.Comentario
		solicitud.ResolvedAt = &now
		return s.repo.Update(ctx, tx, solicitud)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.PublicarEvento(ctx, worker.EventoSolicitudRechazada, solicitud)
	return solicitudToResponse(solicitud), nil
}

func solicitudToResponse(s *model.SolicitudEfectivo) *dto.SolicitudEfectivoResponse {
	return &dto.SolicitudEfectivoResponse{
		SolicitudID:        s.ID.String(),
		AperturaID:         s.AperturaID.String(),
		VendedorSolicitaID: s.VendedorSolicitaID.String(),
		VendedorPrestaID:   s.VendedorPrestaID.String(),
		Monto:              s.Monto,
		Estado:             s.Estado,
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
	}
}
