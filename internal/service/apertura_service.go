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
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AperturaService interface {
	// Aperturar opens a new apertura or tops up the active one. Repeated
	// calls accumulate: the float grows and new distribucion rows are added,
	// nothing is replaced.
	Aperturar(ctx context.Context, usuarioID uuid.UUID, req dto.AperturarRequest) (*dto.AperturaResponse, error)
	// Cerrar closes the apertura. Closing is final: there is no reopen.
	Cerrar(ctx context.Context, aperturaID, usuarioID uuid.UUID, req dto.CierreRequest) (*dto.CierreResponse, error)
	AperturaActiva(ctx context.Context, vendedorID uuid.UUID) (*dto.AperturaResponse, error)
	Historial(ctx context.Context, page, limit int) (*dto.AperturaHistorialResponse, error)
}

type aperturaService struct {
	repo        repository.AperturaRepository
	cajaRepo    repository.CajaRepository
	usuarioRepo repository.UsuarioRepository
	ledger      TransaccionService
	arqueo      ArqueoService
	dispatcher  *worker.Dispatcher
	cfg         *config.Config
}

func NewAperturaService(
	repo repository.AperturaRepository,
	cajaRepo repository.CajaRepository,
	usuarioRepo repository.UsuarioRepository,
	ledger TransaccionService,
	arqueo ArqueoService,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) AperturaService {
	return &aperturaService{
		repo:        repo,
		cajaRepo:    cajaRepo,
		usuarioRepo: usuarioRepo,
		ledger:      ledger,
		arqueo:      arqueo,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

func (s *aperturaService) Aperturar(ctx context.Context, usuarioID uuid.UUID, req dto.AperturarRequest) (*dto.AperturaResponse, error) {
	cajaID, err := uuid.Parse(req.CajaPrincipalID)
	if err != nil {
		return nil, fmt.Errorf("caja_principal_id inválido: %w", err)
	}

	// The float must be fully attributed to sellers.
	suma := decimal.Zero
	shares := make([]model.DistribucionEfectivo, 0, len(req.Vendedores))
	for _, v := range req.Vendedores {
		vid, err := uuid.Parse(v.UserID)
		if err != nil {
			return nil, fmt.Errorf("user_id inválido: %w", err)
		}
		suma = suma.Add(v.Monto)
		shares = append(shares, model.DistribucionEfectivo{VendedorID: vid, Monto: v.Monto})
	}
	if !suma.Equal(req.MontoApertura) {
		return nil, fmt.Errorf("la distribución (%s) no coincide con el monto de apertura (%s)",
			suma.StringFixed(2), req.MontoApertura.StringFixed(2))
	}

	caja, err := s.cajaRepo.FindCajaPrincipalByID(ctx, cajaID)
	if err != nil {
		return nil, cajaerr.ErrCajaNoEncontrada
	}
	chica, err := s.cajaRepo.FindCajaChica(ctx, caja.ID)
	if err != nil {
		return nil, cajaerr.ErrSubCajaNoEncontrada
	}

	var apertura *model.Apertura
	err = runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		existente, err := s.repo.FindAbiertaPorCaja(ctx, caja.ID)
		switch {
		case err == nil:
			// Top-up: lock and accumulate.
			apertura, err = s.repo.FindForUpdate(ctx, tx, existente.ID)
			if err != nil {
				return err
			}
			apertura.MontoApertura = apertura.MontoApertura.Add(req.MontoApertura)
			if err := s.repo.Update(ctx, tx, apertura); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			apertura = &model.Apertura{
				CajaPrincipalID: caja.ID,
				SubCajaID:       chica.ID,
				MontoApertura:   req.MontoApertura,
				Estado:          model.AperturaAbierta,
				UsuarioAbreID:   usuarioID,
				OpenedAt:        time.Now(),
			}
			if err := s.repo.Create(ctx, tx, apertura); err != nil {
				return err
			}
		default:
			return err
		}

		for i := range shares {
			shares[i].AperturaID = apertura.ID
			if err := s.repo.CreateDistribucion(ctx, tx, &shares[i]); err != nil {
				return err
			}
		}

		if req.MontoApertura.IsPositive() {
			ref := model.RefApertura
			refID := apertura.ID
			_, err = s.ledger.Registrar(ctx, tx, RegistrarTransaccion{
				SubCajaID:      chica.ID,
				Tipo:           model.TransaccionIngreso,
				Monto:          req.MontoApertura,
				Descripcion:    "Apertura de caja",
				ReferenciaID:   &refID,
				ReferenciaTipo: &ref,
				UsuarioID:      usuarioID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.PublicarEvento(ctx, worker.EventoAperturaAbierta, apertura)
	return s.buildAperturaResponse(ctx, apertura)
}

func (s *aperturaService) Cerrar(ctx context.Context, aperturaID, usuarioID uuid.UUID, req dto.CierreRequest) (*dto.CierreResponse, error) {
	var supervisor *model.Usuario
	if req.SupervisorID != nil {
		sid, err := uuid.Parse(*req.SupervisorID)
		if err != nil {
			return nil, cajaerr.ErrSupervisorInvalido
		}
		supervisor, err = s.usuarioRepo.FindByID(ctx, sid)
		if err != nil || !supervisor.EsSupervisor() {
			return nil, cajaerr.ErrSupervisorInvalido
		}
	}
	if req.ForzarCierre && supervisor == nil {
		return nil, cajaerr.ErrSupervisorInvalido
	}

	var apertura *model.Apertura
	var esperado, diferencia decimal.Decimal
	err := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		apertura, err = s.repo.FindForUpdate(ctx, tx, aperturaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cajaerr.ErrAperturaNoEncontrada
			}
			return err
		}
		if apertura.Estado == model.AperturaCerrada {
			return cajaerr.ErrAperturaCerrada
		}

		// El esperado se recalcula sobre la misma transacción que sostiene el
		// lock de la apertura: un movimiento que entró después del preview
		// queda incluido en la cifra que se persiste.
		arqueo, err := s.arqueo.MontoEsperadoEnTx(ctx, tx, apertura.ID)
		if err != nil {
			return err
		}
		esperado = arqueo.MontoEsperado

		contado := req.MontoCierreEfectivo.Add(req.TotalCuentas)
		diferencia = contado.Sub(esperado)

		limite := s.cfg.LimiteDiferenciaDecimal()
		limiteMax := s.cfg.LimiteMaximoDecimal()

		// Beyond the absolute ceiling nobody can authorize the close.
		if diferencia.Abs().GreaterThan(limiteMax) {
			return &cajaerr.LimiteMaximoError{Diferencia: diferencia, Limite: limiteMax}
		}
		if diferencia.Abs().GreaterThan(limite) && supervisor == nil && !req.ForzarCierre {
			return &cajaerr.SupervisorRequeridoError{Diferencia: diferencia, Limite: limite}
		}

		now := time.Now()
		apertura.MontoCierreEfectivo = &req.MontoCierreEfectivo
		apertura.TotalCuentas = &req.TotalCuentas
		apertura.MontoEsperado = &esperado
		apertura.Diferencia = &diferencia
		apertura.Conteo = req.Conteo
		apertura.ConceptosExtra = req.ConceptosExtra
		apertura.Observaciones = req.Observaciones
		apertura.UsuarioCierraID = &usuarioID
		if supervisor != nil {
			apertura.SupervisorID = &supervisor.ID
		}
		apertura.Estado = model.AperturaCerrada
		apertura.ClosedAt = &now
		return s.repo.Update(ctx, tx, apertura)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.PublicarEvento(ctx, worker.EventoAperturaCerrada, apertura)

	// Escalated closes are reported to the supervisor who authorized them.
	if supervisor != nil && supervisor.Email != nil {
		if err := s.dispatcher.EnqueueEmailCierre(ctx, worker.EmailCierrePayload{
			Para:          *supervisor.Email,
			AperturaID:    apertura.ID.String(),
			MontoEsperado: esperado,
			MontoContado:  req.MontoCierreEfectivo.Add(req.TotalCuentas),
			Diferencia:    diferencia,
			ClosedAt:      apertura.ClosedAt.Format(time.RFC3339),
		}); err != nil {
			log.Error().Err(err).Str("apertura_id", apertura.ID.String()).
				Msg("no se pudo encolar el email de cierre")
		}
	}

	return s.buildCierreResponse(apertura), nil
}

func (s *aperturaService) AperturaActiva(ctx context.Context, vendedorID uuid.UUID) (*dto.AperturaResponse, error) {
	apertura, err := s.repo.FindAbiertaPorVendedor(ctx, vendedorID)
	if err != nil {
		return nil, cajaerr.ErrSinAperturaActiva
	}
	return s.buildAperturaResponse(ctx, apertura)
}

func (s *aperturaService) Historial(ctx context.Context, page, limit int) (*dto.AperturaHistorialResponse, error) {
	aperturas, total, err := s.repo.ListCerradas(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.AperturaHistorialResponse{Page: page, Limit: limit, Total: total}
	for i := range aperturas {
		resp.Data = append(resp.Data, *s.buildCierreResponse(&aperturas[i]))
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *aperturaService) buildAperturaResponse(ctx context.Context, a *model.Apertura) (*dto.AperturaResponse, error) {
	distribuciones, err := s.repo.ListDistribuciones(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.AperturaResponse{
		AperturaID:      a.ID.String(),
		CajaPrincipalID: a.CajaPrincipalID.String(),
		SubCajaID:       a.SubCajaID.String(),
		MontoApertura:   a.MontoApertura,
		Estado:          a.Estado,
		OpenedAt:        a.OpenedAt.Format(time.RFC3339),
	}
	for _, d := range distribuciones {
		resp.Distribuciones = append(resp.Distribuciones, dto.DistribucionResponse{
			VendedorID: d.VendedorID.String(),
			Monto:      d.Monto,
			CreatedAt:  d.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (s *aperturaService) buildCierreResponse(a *model.Apertura) *dto.CierreResponse {
	resp := &dto.CierreResponse{
		AperturaID: a.ID.String(),
		Estado:     a.Estado,
	}
	if a.MontoEsperado != nil {
		resp.MontoEsperado = *a.MontoEsperado
	}
	if a.MontoCierreEfectivo != nil {
		resp.MontoCierreEfectivo = *a.MontoCierreEfectivo
	}
	if a.TotalCuentas != nil {
		resp.TotalCuentas = *a.TotalCuentas
	}
	if a.Diferencia != nil {
		resp.Diferencia = *a.Diferencia
	}
	if a.SupervisorID != nil {
		sid := a.SupervisorID.String()
		resp.SupervisorID = &sid
	}
	if a.ClosedAt != nil {
		resp.ClosedAt = a.ClosedAt.Format(time.RFC3339)
	}
	return resp
}
