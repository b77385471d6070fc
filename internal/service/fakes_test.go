package service

import (
	"context"
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/config"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Shared in-memory store ────────────────────────────────────────────────────
//
// One store backs every fake repository so cross-repo queries (joins in the
// real SQL) see a consistent state. The fakes ignore the (nil) tx parameter;
// transactional semantics come from the nilTx hook below, which snapshots the
// whole store before each unit of work and restores it when the callback
// errors. A failed second leg therefore rolls back the first, same as the
// database transaction would.

// currentStore points at the store of the env most recently built. Tests run
// sequentially, so one slot is enough.
var currentStore *store

func init() {
	nilTx = func(_ context.Context, fn func(tx *gorm.DB) error) error {
		st := currentStore
		if st == nil {
			return fn(nil)
		}
		snap := st.snapshot()
		if err := fn(nil); err != nil {
			st.restore(snap)
			return err
		}
		return nil
	}
}

type store struct {
	cajas          map[uuid.UUID]*model.CajaPrincipal
	subCajas       map[uuid.UUID]*model.SubCaja
	transacciones  []*model.Transaccion
	aperturas      map[uuid.UUID]*model.Apertura
	distribuciones []*model.DistribucionEfectivo
	prestamos      map[uuid.UUID]*model.Prestamo
	movimientos    []*model.MovimientoInterno
	solicitudes    map[uuid.UUID]*model.SolicitudEfectivo
	transferencias []*model.TransferenciaEfectivo
	pagos          []repository.PagoPorMedio
	despliegues    map[uuid.UUID]*model.DespliegueDePago
	usuarios       map[uuid.UUID]*model.Usuario
}

func newStore() *store {
	return &store{
		cajas:       make(map[uuid.UUID]*model.CajaPrincipal),
		subCajas:    make(map[uuid.UUID]*model.SubCaja),
		aperturas:   make(map[uuid.UUID]*model.Apertura),
		prestamos:   make(map[uuid.UUID]*model.Prestamo),
		solicitudes: make(map[uuid.UUID]*model.SolicitudEfectivo),
		despliegues: make(map[uuid.UUID]*model.DespliegueDePago),
		usuarios:    make(map[uuid.UUID]*model.Usuario),
	}
}

// mapSnap preserves both the entries of a map and the pointed-to values, so a
// restore can undo in-place mutations without invalidating pointers a test
// still holds.
type mapSnap[T any] struct {
	ptrs map[uuid.UUID]*T
	vals map[uuid.UUID]T
}

func snapMap[T any](m map[uuid.UUID]*T) mapSnap[T] {
	s := mapSnap[T]{ptrs: make(map[uuid.UUID]*T, len(m)), vals: make(map[uuid.UUID]T, len(m))}
	for k, p := range m {
		s.ptrs[k] = p
		s.vals[k] = *p
	}
	return s
}

func (s mapSnap[T]) restore(m map[uuid.UUID]*T) {
	for k := range m {
		if _, ok := s.ptrs[k]; !ok {
			delete(m, k)
		}
	}
	for k, p := range s.ptrs {
		*p = s.vals[k]
		m[k] = p
	}
}

// storeSnapshot captures the store state at the start of a unit of work. The
// slice-backed tables are append-only, so a length suffices for them.
type storeSnapshot struct {
	cajas       mapSnap[model.CajaPrincipal]
	subCajas    mapSnap[model.SubCaja]
	aperturas   mapSnap[model.Apertura]
	prestamos   mapSnap[model.Prestamo]
	solicitudes mapSnap[model.SolicitudEfectivo]
	despliegues mapSnap[model.DespliegueDePago]
	usuarios    mapSnap[model.Usuario]

	nTransacciones  int
	nDistribuciones int
	nMovimientos    int
	nTransferencias int
	nPagos          int
}

func (st *store) snapshot() *storeSnapshot {
	return &storeSnapshot{
		cajas:       snapMap(st.cajas),
		subCajas:    snapMap(st.subCajas),
		aperturas:   snapMap(st.aperturas),
		prestamos:   snapMap(st.prestamos),
		solicitudes: snapMap(st.solicitudes),
		despliegues: snapMap(st.despliegues),
		usuarios:    snapMap(st.usuarios),

		nTransacciones:  len(st.transacciones),
		nDistribuciones: len(st.distribuciones),
		nMovimientos:    len(st.movimientos),
		nTransferencias: len(st.transferencias),
		nPagos:          len(st.pagos),
	}
}

func (st *store) restore(s *storeSnapshot) {
	s.cajas.restore(st.cajas)
	s.subCajas.restore(st.subCajas)
	s.aperturas.restore(st.aperturas)
	s.prestamos.restore(st.prestamos)
	s.solicitudes.restore(st.solicitudes)
	s.despliegues.restore(st.despliegues)
	s.usuarios.restore(st.usuarios)

	st.transacciones = st.transacciones[:s.nTransacciones]
	st.distribuciones = st.distribuciones[:s.nDistribuciones]
	st.movimientos = st.movimientos[:s.nMovimientos]
	st.transferencias = st.transferencias[:s.nTransferencias]
	st.pagos = st.pagos[:s.nPagos]
}

// addCaja seeds a caja principal with its caja chica.
func (st *store) addCaja(vendedorID uuid.UUID) (*model.CajaPrincipal, *model.SubCaja) {
	caja := &model.CajaPrincipal{ID: uuid.New(), VendedorID: vendedorID, Nombre: "Caja", Activa: true}
	st.cajas[caja.ID] = caja
	chica := &model.SubCaja{ID: uuid.New(), CajaPrincipalID: caja.ID, Nombre: "Caja Chica", Tipo: model.SubCajaChica}
	st.subCajas[chica.ID] = chica
	return caja, chica
}

func (st *store) addSecundaria(cajaID uuid.UUID, nombre string, saldo decimal.Decimal) *model.SubCaja {
	sub := &model.SubCaja{ID: uuid.New(), CajaPrincipalID: cajaID, Nombre: nombre, Tipo: model.SubCajaSecundaria, Saldo: saldo}
	st.subCajas[sub.ID] = sub
	return sub
}

func (st *store) addUsuario(rol string, email string) *model.Usuario {
	u := &model.Usuario{ID: uuid.New(), Username: email, Nombre: "Test", Rol: rol, Activo: true}
	if email != "" {
		u.Email = &email
	}
	st.usuarios[u.ID] = u
	return u
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "secreto-de-prueba",
		JWTExpirationHours:        1,
		JWTRefreshHours:           24,
		LimiteDiferencia:          "10.00",
		LimiteMaximoDiferencia:    "100.00",
		PrestamoExpiracionMinutos: 60,
	}
}

// ── CajaRepository ────────────────────────────────────────────────────────────

type fakeCajaRepo struct{ st *store }

func (r *fakeCajaRepo) DB() *gorm.DB { return nil }

func (r *fakeCajaRepo) CreateCajaPrincipal(_ context.Context, _ *gorm.DB, c *model.CajaPrincipal) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.st.cajas[c.ID] = c
	return nil
}

func (r *fakeCajaRepo) FindCajaPrincipalByID(_ context.Context, id uuid.UUID) (*model.CajaPrincipal, error) {
	c, ok := r.st.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCajaRepo) FindCajaPrincipalByVendedor(_ context.Context, vendedorID uuid.UUID) (*model.CajaPrincipal, error) {
	for _, c := range r.st.cajas {
		if c.VendedorID == vendedorID && c.Activa {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCajaRepo) CreateSubCaja(_ context.Context, _ *gorm.DB, s *model.SubCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.st.subCajas[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) FindSubCajaByID(_ context.Context, id uuid.UUID) (*model.SubCaja, error) {
	s, ok := r.st.subCajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeCajaRepo) FindSubCajaForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.SubCaja, error) {
	return r.FindSubCajaByID(ctx, id)
}

func (r *fakeCajaRepo) FindCajaChica(_ context.Context, cajaPrincipalID uuid.UUID) (*model.SubCaja, error) {
	for _, s := range r.st.subCajas {
		if s.CajaPrincipalID == cajaPrincipalID && s.Tipo == model.SubCajaChica {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCajaRepo) ExistsSubCajaNombre(_ context.Context, cajaPrincipalID uuid.UUID, nombre string) (bool, error) {
	for _, s := range r.st.subCajas {
		if s.CajaPrincipalID == cajaPrincipalID && s.Nombre == nombre {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCajaRepo) UpdateSaldo(_ context.Context, _ *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	s, ok := r.st.subCajas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Saldo = saldo
	return nil
}

func (r *fakeCajaRepo) DeleteSubCaja(_ context.Context, id uuid.UUID) error {
	delete(r.st.subCajas, id)
	return nil
}

func (r *fakeCajaRepo) ListSubCajas(_ context.Context, cajaPrincipalID uuid.UUID) ([]model.SubCaja, error) {
	var out []model.SubCaja
	for _, s := range r.st.subCajas {
		if s.CajaPrincipalID == cajaPrincipalID {
			out = append(out, *s)
		}
	}
	return out, nil
}

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

// ── TransaccionRepository ─────────────────────────────────────────────────────

type fakeTransaccionRepo struct{ st *store }

func (r *fakeTransaccionRepo) Create(_ context.Context, _ *gorm.DB, t *model.Transaccion) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.st.transacciones = append(r.st.transacciones, t)
	return nil
}

func (r *fakeTransaccionRepo) ListBySubCaja(_ context.Context, subCajaID uuid.UUID) ([]model.Transaccion, error) {
	var out []model.Transaccion
	for _, t := range r.st.transacciones {
		if t.SubCajaID == subCajaID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTransaccionRepo) SaldoVendedorEntradas(_ context.Context, subCajaID, vendedorID uuid.UUID) (decimal.Decimal, error) {
	saldo := decimal.Zero
	for _, t := range r.st.transacciones {
		if t.SubCajaID != subCajaID || t.UsuarioID != vendedorID {
			continue
		}
		if t.ReferenciaTipo != nil && *t.ReferenciaTipo == model.RefApertura {
			continue
		}
		if t.Tipo == model.TransaccionIngreso {
			saldo = saldo.Add(t.Monto)
		} else {
			saldo = saldo.Sub(t.Monto)
		}
	}
	return saldo, nil
}

func (r *fakeTransaccionRepo) sumManual(cajaPrincipalID uuid.UUID, tipo string, desde, hasta time.Time) decimal.Decimal {
	noManual := map[string]bool{
		model.RefVenta: true, model.RefApertura: true, model.RefPrestamo: true,
		model.RefDevolucionPrestamo: true, model.RefMovimientoInterno: true,
		model.RefPrestamoVendedor: true,
	}
	total := decimal.Zero
	for _, t := range r.st.transacciones {
		sub, ok := r.st.subCajas[t.SubCajaID]
		if !ok || sub.CajaPrincipalID != cajaPrincipalID {
			continue
		}
		if t.Tipo != tipo {
			continue
		}
		if t.ReferenciaTipo != nil && noManual[*t.ReferenciaTipo] {
			continue
		}
		if t.CreatedAt.Before(desde) || t.CreatedAt.After(hasta) {
			continue
		}
		total = total.Add(t.Monto)
	}
	return total
}

func (r *fakeTransaccionRepo) SumManualIngresos(_ context.Context, _ *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) (decimal.Decimal, error) {
	return r.sumManual(cajaPrincipalID, model.TransaccionIngreso, desde, hasta), nil
}

func (r *fakeTransaccionRepo) SumManualEgresos(_ context.Context, _ *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) (decimal.Decimal, error) {
	return r.sumManual(cajaPrincipalID, model.TransaccionEgreso, desde, hasta), nil
}

var _ repository.TransaccionRepository = (*fakeTransaccionRepo)(nil)

// ── AperturaRepository ────────────────────────────────────────────────────────

type fakeAperturaRepo struct{ st *store }

func (r *fakeAperturaRepo) Create(_ context.Context, _ *gorm.DB, a *model.Apertura) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.st.aperturas[a.ID] = a
	return nil
}

func (r *fakeAperturaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Apertura, error) {
	a, ok := r.st.aperturas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeAperturaRepo) FindForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Apertura, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeAperturaRepo) FindAbiertaPorCaja(_ context.Context, cajaPrincipalID uuid.UUID) (*model.Apertura, error) {
	for _, a := range r.st.aperturas {
		if a.CajaPrincipalID == cajaPrincipalID && a.Estado == model.AperturaAbierta {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAperturaRepo) FindAbiertaPorVendedor(_ context.Context, vendedorID uuid.UUID) (*model.Apertura, error) {
	for _, a := range r.st.aperturas {
		caja, ok := r.st.cajas[a.CajaPrincipalID]
		if ok && caja.VendedorID == vendedorID && a.Estado == model.AperturaAbierta {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAperturaRepo) Update(_ context.Context, _ *gorm.DB, a *model.Apertura) error {
	r.st.aperturas[a.ID] = a
	return nil
}

func (r *fakeAperturaRepo) CreateDistribucion(_ context.Context, _ *gorm.DB, d *model.DistribucionEfectivo) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	r.st.distribuciones = append(r.st.distribuciones, d)
	return nil
}

func (r *fakeAperturaRepo) SumDistribucion(_ context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, d := range r.st.distribuciones {
		if d.AperturaID == aperturaID && d.VendedorID == vendedorID {
			total = total.Add(d.Monto)
		}
	}
	return total, nil
}

func (r *fakeAperturaRepo) ListDistribuciones(_ context.Context, aperturaID uuid.UUID) ([]model.DistribucionEfectivo, error) {
	var out []model.DistribucionEfectivo
	for _, d := range r.st.distribuciones {
		if d.AperturaID == aperturaID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeAperturaRepo) ListCerradas(_ context.Context, page, limit int) ([]model.Apertura, int64, error) {
	var all []model.Apertura
	for _, a := range r.st.aperturas {
		if a.Estado == model.AperturaCerrada {
			all = append(all, *a)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.AperturaRepository = (*fakeAperturaRepo)(nil)

// ── PrestamoRepository ────────────────────────────────────────────────────────

type fakePrestamoRepo struct{ st *store }

func (r *fakePrestamoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Prestamo) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.st.prestamos[p.ID] = p
	return nil
}

func (r *fakePrestamoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Prestamo, error) {
	p, ok := r.st.prestamos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePrestamoRepo) FindForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Prestamo, error) {
	return r.FindByID(ctx, id)
}

func (r *fakePrestamoRepo) Update(_ context.Context, _ *gorm.DB, p *model.Prestamo) error {
	r.st.prestamos[p.ID] = p
	return nil
}

func (r *fakePrestamoRepo) ListPendientes(_ context.Context, usuarioRecibeID uuid.UUID, expiracion time.Duration) ([]model.Prestamo, error) {
	limite := time.Now().Add(-expiracion)
	var out []model.Prestamo
	for _, p := range r.st.prestamos {
		if p.UsuarioRecibeID == usuarioRecibeID && p.Estado == model.PrestamoPendiente && p.RequestedAt.After(limite) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePrestamoRepo) ListPorCajaEnVentana(_ context.Context, _ *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) ([]model.Prestamo, error) {
	perteneceACaja := func(id *uuid.UUID) bool {
		if id == nil {
			return false
		}
		sub, ok := r.st.subCajas[*id]
		return ok && sub.CajaPrincipalID == cajaPrincipalID
	}
	var out []model.Prestamo
	for _, p := range r.st.prestamos {
		if p.Estado != model.PrestamoAprobado || p.ResolvedAt == nil {
			continue
		}
		if p.ResolvedAt.Before(desde) || p.ResolvedAt.After(hasta) {
			continue
		}
		destino := p.SubCajaDestinoID
		if perteneceACaja(&destino) || perteneceACaja(p.SubCajaOrigenID) {
			out = append(out, *p)
		}
	}
	return out, nil
}

var _ repository.PrestamoRepository = (*fakePrestamoRepo)(nil)

// ── MovimientoInternoRepository ───────────────────────────────────────────────

type fakeMovimientoRepo struct{ st *store }

func (r *fakeMovimientoRepo) Create(_ context.Context, _ *gorm.DB, m *model.MovimientoInterno) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.st.movimientos = append(r.st.movimientos, m)
	return nil
}

func (r *fakeMovimientoRepo) ListPorCajaEnVentana(_ context.Context, _ *gorm.DB, cajaPrincipalID uuid.UUID, desde, hasta time.Time) ([]model.MovimientoInterno, error) {
	pertenece := func(id uuid.UUID) bool {
		sub, ok := r.st.subCajas[id]
		return ok && sub.CajaPrincipalID == cajaPrincipalID
	}
	var out []model.MovimientoInterno
	for _, m := range r.st.movimientos {
		if m.CreatedAt.Before(desde) || m.CreatedAt.After(hasta) {
			continue
		}
		if pertenece(m.SubCajaOrigenID) || pertenece(m.SubCajaDestinoID) {
			out = append(out, *m)
		}
	}
	return out, nil
}

var _ repository.MovimientoInternoRepository = (*fakeMovimientoRepo)(nil)

// ── SolicitudEfectivoRepository ───────────────────────────────────────────────

type fakeSolicitudRepo struct{ st *store }

func (r *fakeSolicitudRepo) Create(_ context.Context, _ *gorm.DB, s *model.SolicitudEfectivo) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.st.solicitudes[s.ID] = s
	return nil
}

func (r *fakeSolicitudRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SolicitudEfectivo, error) {
	s, ok := r.st.solicitudes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSolicitudRepo) FindForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.SolicitudEfectivo, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeSolicitudRepo) Update(_ context.Context, _ *gorm.DB, s *model.SolicitudEfectivo) error {
	r.st.solicitudes[s.ID] = s
	return nil
}

func (r *fakeSolicitudRepo) ListPorApertura(_ context.Context, aperturaID uuid.UUID) ([]model.SolicitudEfectivo, error) {
	var out []model.SolicitudEfectivo
	for _, s := range r.st.solicitudes {
		if s.AperturaID == aperturaID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSolicitudRepo) CreateTransferencia(_ context.Context, _ *gorm.DB, t *model.TransferenciaEfectivo) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.st.transferencias = append(r.st.transferencias, t)
	return nil
}

func (r *fakeSolicitudRepo) SumTransferenciasOrigen(_ context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range r.st.transferencias {
		if t.AperturaID == aperturaID && t.VendedorOrigenID == vendedorID {
			total = total.Add(t.Monto)
		}
	}
	return total, nil
}

func (r *fakeSolicitudRepo) SumTransferenciasDestino(_ context.Context, aperturaID, vendedorID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range r.st.transferencias {
		if t.AperturaID == aperturaID && t.VendedorDestinoID == vendedorID {
			total = total.Add(t.Monto)
		}
	}
	return total, nil
}

var _ repository.SolicitudEfectivoRepository = (*fakeSolicitudRepo)(nil)

// ── VentaRepository ───────────────────────────────────────────────────────────

type fakeVentaRepo struct{ st *store }

func (r *fakeVentaRepo) SumPagosPorMedio(_ context.Context, _ *gorm.DB, _ uuid.UUID, _, _ time.Time) ([]repository.PagoPorMedio, error) {
	return r.st.pagos, nil
}

func (r *fakeVentaRepo) FindDespliegue(_ context.Context, id uuid.UUID) (*model.DespliegueDePago, error) {
	d, ok := r.st.despliegues[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

var _ repository.VentaRepository = (*fakeVentaRepo)(nil)

// ── UsuarioRepository ─────────────────────────────────────────────────────────

type fakeUsuarioRepo struct{ st *store }

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.st.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.st.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.st.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.st.usuarios {
		if u.Email != nil && *u.Email == email && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

// ── Wired services over the fakes ─────────────────────────────────────────────

type env struct {
	st *store

	cajaRepo        *fakeCajaRepo
	transaccionRepo *fakeTransaccionRepo
	aperturaRepo    *fakeAperturaRepo
	prestamoRepo    *fakePrestamoRepo
	movimientoRepo  *fakeMovimientoRepo
	solicitudRepo   *fakeSolicitudRepo
	ventaRepo       *fakeVentaRepo
	usuarioRepo     *fakeUsuarioRepo

	cfg *config.Config

	ledger        TransaccionService
	arqueo        ArqueoService
	aperturas     AperturaService
	prestamos     PrestamoService
	prestamosVend PrestamoVendedorService
	cajas         CajaService
	auth          AuthService
}

func newEnv() *env {
	st := newStore()
	e := &env{
		st:              st,
		cajaRepo:        &fakeCajaRepo{st: st},
		transaccionRepo: &fakeTransaccionRepo{st: st},
		aperturaRepo:    &fakeAperturaRepo{st: st},
		prestamoRepo:    &fakePrestamoRepo{st: st},
		movimientoRepo:  &fakeMovimientoRepo{st: st},
		solicitudRepo:   &fakeSolicitudRepo{st: st},
		ventaRepo:       &fakeVentaRepo{st: st},
		usuarioRepo:     &fakeUsuarioRepo{st: st},
		cfg:             testConfig(),
	}
	e.ledger = NewTransaccionService(e.transaccionRepo, e.cajaRepo, e.aperturaRepo)
	e.arqueo = NewArqueoService(e.aperturaRepo, e.cajaRepo, e.transaccionRepo, e.ventaRepo, e.prestamoRepo, e.movimientoRepo)
	e.aperturas = NewAperturaService(e.aperturaRepo, e.cajaRepo, e.usuarioRepo, e.ledger, e.arqueo, nil, e.cfg)
	e.prestamos = NewPrestamoService(e.prestamoRepo, e.movimientoRepo, e.cajaRepo, e.aperturaRepo, e.ventaRepo, e.ledger, nil, e.cfg)
	e.prestamosVend = NewPrestamoVendedorService(e.solicitudRepo, e.aperturaRepo, e.cajaRepo, e.ledger, nil)
	e.cajas = NewCajaService(e.cajaRepo)
	e.auth = NewAuthService(e.usuarioRepo, e.cfg)
	currentStore = st
	return e
}
