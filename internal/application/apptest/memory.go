// Package apptest provee repositorios en memoria y un TxRunner falso para
// probar los orquestadores sin PostgreSQL. El TxRunner toma una foto del
// estado antes de cada transacción y la restaura si el callback falla, de
// modo que los tests puedan verificar atomicidad de verdad.
package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository       = (*ItemRepo)(nil)
	_ repository.BranchRepository     = (*BranchRepo)(nil)
	_ repository.WorkerRepository     = (*WorkerRepo)(nil)
	_ repository.CustomerRepository   = (*CustomerRepo)(nil)
	_ repository.SupplierRepository   = (*SupplierRepo)(nil)
	_ repository.StockRepository      = (*StockRepo)(nil)
	_ repository.MovementRepository   = (*MovementRepo)(nil)
	_ repository.SaleRepository       = (*SaleRepo)(nil)
	_ repository.PurchaseRepository   = (*PurchaseRepo)(nil)
	_ repository.AccountingRepository = (*AccountingRepo)(nil)
)

// Store estado en memoria compartido por todos los repos falsos.
type Store struct {
	Items         map[string]*entity.Item
	Branches      map[string]*entity.Branch
	Workers       map[string]*entity.Worker
	Customers     map[string]*entity.Customer
	Suppliers     map[string]*entity.Supplier
	Stock         map[string]*entity.StockRecord
	Movements     []*entity.MovementEntry
	Sales         map[string]*entity.Sale
	SaleLines     []*entity.SaleLine
	Purchases     map[string]*entity.Purchase
	PurchaseLines []*entity.PurchaseLine
	Entries       []*entity.AccountingEntry
}

// NewStore construye un estado vacío.
func NewStore() *Store {
	return &Store{
		Items:     map[string]*entity.Item{},
		Branches:  map[string]*entity.Branch{},
		Workers:   map[string]*entity.Worker{},
		Customers: map[string]*entity.Customer{},
		Suppliers: map[string]*entity.Supplier{},
		Stock:     map[string]*entity.StockRecord{},
		Sales:     map[string]*entity.Sale{},
		Purchases: map[string]*entity.Purchase{},
	}
}

func stockKey(itemKind, itemID, branchID string) string {
	return itemKind + "|" + itemID + "|" + branchID
}

// SetStock deja un registro de stock en el estado (helper de arranque).
func (s *Store) SetStock(itemKind, itemID, branchID string, qty, minQty int64, cost decimal.Decimal) {
	s.Stock[stockKey(itemKind, itemID, branchID)] = &entity.StockRecord{
		ItemKind: itemKind, ItemID: itemID, BranchID: branchID,
		Quantity: qty, MinQuantity: minQty, UnitCost: cost,
	}
}

// StockQty devuelve la cantidad actual (cero si no hay fila).
func (s *Store) StockQty(itemKind, itemID, branchID string) int64 {
	if rec, ok := s.Stock[stockKey(itemKind, itemID, branchID)]; ok {
		return rec.Quantity
	}
	return 0
}

// clone copia profunda del estado (las entidades se copian por valor).
func (s *Store) clone() *Store {
	c := NewStore()
	for k, v := range s.Items {
		cp := *v
		c.Items[k] = &cp
	}
	for k, v := range s.Branches {
		cp := *v
		c.Branches[k] = &cp
	}
	for k, v := range s.Workers {
		cp := *v
		c.Workers[k] = &cp
	}
	for k, v := range s.Customers {
		cp := *v
		c.Customers[k] = &cp
	}
	for k, v := range s.Suppliers {
		cp := *v
		c.Suppliers[k] = &cp
	}
	for k, v := range s.Stock {
		cp := *v
		c.Stock[k] = &cp
	}
	for k, v := range s.Sales {
		cp := *v
		c.Sales[k] = &cp
	}
	for k, v := range s.Purchases {
		cp := *v
		c.Purchases[k] = &cp
	}
	for _, v := range s.Movements {
		cp := *v
		c.Movements = append(c.Movements, &cp)
	}
	for _, v := range s.SaleLines {
		cp := *v
		c.SaleLines = append(c.SaleLines, &cp)
	}
	for _, v := range s.PurchaseLines {
		cp := *v
		c.PurchaseLines = append(c.PurchaseLines, &cp)
	}
	for _, v := range s.Entries {
		cp := *v
		c.Entries = append(c.Entries, &cp)
	}
	return c
}

// ── Repos de catálogo ─────────────────────────────────────────────────────────

// ItemRepo catálogo en memoria.
type ItemRepo struct{ S *Store }

func (r *ItemRepo) Create(item *entity.Item) error {
	cp := *item
	r.S.Items[item.ID] = &cp
	return nil
}

func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	if it, ok := r.S.Items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	out := make([]*entity.Item, 0, len(r.S.Items))
	for _, it := range r.S.Items {
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *ItemRepo) UpdateCost(id string, cost decimal.Decimal) error {
	if it, ok := r.S.Items[id]; ok {
		it.Cost = cost
		return nil
	}
	return domain.ErrNotFound
}

// BranchRepo sucursales en memoria.
type BranchRepo struct{ S *Store }

func (r *BranchRepo) Create(b *entity.Branch) error {
	cp := *b
	r.S.Branches[b.ID] = &cp
	return nil
}

func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	if b, ok := r.S.Branches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *BranchRepo) List() ([]*entity.Branch, error) {
	out := make([]*entity.Branch, 0, len(r.S.Branches))
	for _, b := range r.S.Branches {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// WorkerRepo trabajadores en memoria.
type WorkerRepo struct{ S *Store }

func (r *WorkerRepo) Create(w *entity.Worker) error {
	for _, existing := range r.S.Workers {
		if existing.Email == w.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *w
	r.S.Workers[w.ID] = &cp
	return nil
}

func (r *WorkerRepo) GetByID(id string) (*entity.Worker, error) {
	if w, ok := r.S.Workers[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *WorkerRepo) FindByEmail(email string) (*entity.Worker, error) {
	for _, w := range r.S.Workers {
		if w.Email == email {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ S *Store }

func (r *CustomerRepo) Create(c *entity.Customer) error {
	cp := *c
	r.S.Customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	if c, ok := r.S.Customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ S *Store }

func (r *SupplierRepo) Create(s *entity.Supplier) error {
	cp := *s
	r.S.Suppliers[s.ID] = &cp
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	if s, ok := r.S.Suppliers[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// ── Stock y kardex ────────────────────────────────────────────────────────────

// StockRepo stock en memoria. Igual que el adaptador real: fila ausente sale
// como registro en cero, nunca como error.
type StockRepo struct{ S *Store }

func (r *StockRepo) Get(itemKind, itemID, branchID string) (*entity.StockRecord, error) {
	if rec, ok := r.S.Stock[stockKey(itemKind, itemID, branchID)]; ok {
		cp := *rec
		return &cp, nil
	}
	return &entity.StockRecord{ItemKind: itemKind, ItemID: itemID, BranchID: branchID, UnitCost: decimal.Zero}, nil
}

func (r *StockRepo) GetForUpdate(itemKind, itemID, branchID string) (*entity.StockRecord, error) {
	return r.Get(itemKind, itemID, branchID)
}

func (r *StockRepo) Upsert(record *entity.StockRecord) error {
	cp := *record
	r.S.Stock[stockKey(record.ItemKind, record.ItemID, record.BranchID)] = &cp
	return nil
}

func (r *StockRepo) UpdateCost(itemKind, itemID, branchID string, cost decimal.Decimal) error {
	if rec, ok := r.S.Stock[stockKey(itemKind, itemID, branchID)]; ok {
		rec.UnitCost = cost
	}
	return nil
}

func (r *StockRepo) ListLowStock(_ context.Context, branchID string) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	for _, rec := range r.S.Stock {
		if rec.BranchID == branchID && rec.Quantity <= rec.MinQuantity {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return (out[i].MinQuantity - out[i].Quantity) > (out[j].MinQuantity - out[j].Quantity)
	})
	return out, nil
}

// MovementRepo kardex en memoria (append-only).
type MovementRepo struct{ S *Store }

func (r *MovementRepo) Create(entry *entity.MovementEntry) error {
	cp := *entry
	r.S.Movements = append(r.S.Movements, &cp)
	return nil
}

func (r *MovementRepo) ListByItem(_ context.Context, itemKind, itemID string, limit, offset int) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, m := range r.S.Movements {
		if m.ItemKind == itemKind && m.ItemID == itemID {
			cp := *m
			out = append(out, &cp)
		}
	}
	// Orden de inserción = orden cronológico en el fake.
	return page(out, limit, offset), nil
}

func (r *MovementRepo) ListByBranch(_ context.Context, branchID string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, m := range r.S.Movements {
		if m.BranchID != branchID {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return page(out, limit, offset), nil
}

func (r *MovementRepo) ListByDateRange(_ context.Context, from, to time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, m := range r.S.Movements {
		if m.Date.Before(from) || m.Date.After(to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return page(out, limit, offset), nil
}

// ── Documentos y libro contable ───────────────────────────────────────────────

// SaleRepo ventas en memoria.
type SaleRepo struct{ S *Store }

func (r *SaleRepo) Create(sale *entity.Sale) error {
	for _, existing := range r.S.Sales {
		if existing.Number == sale.Number {
			return domain.ErrDuplicate
		}
	}
	cp := *sale
	r.S.Sales[sale.ID] = &cp
	return nil
}

func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	cp := *line
	r.S.SaleLines = append(r.S.SaleLines, &cp)
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	if s, ok := r.S.Sales[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *SaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	var out []*entity.SaleLine
	for _, l := range r.S.SaleLines {
		if l.SaleID == saleID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *SaleRepo) MarkVoid(id string) error {
	s, ok := r.S.Sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	if s.Status != entity.SaleStatusActive {
		return domain.ErrConflict
	}
	s.Status = entity.SaleStatusVoid
	s.UpdatedAt = time.Now()
	return nil
}

// PurchaseRepo compras en memoria.
type PurchaseRepo struct{ S *Store }

func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	for _, existing := range r.S.Purchases {
		if existing.Number == p.Number {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.S.Purchases[p.ID] = &cp
	return nil
}

func (r *PurchaseRepo) CreateLine(line *entity.PurchaseLine) error {
	cp := *line
	r.S.PurchaseLines = append(r.S.PurchaseLines, &cp)
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	if p, ok := r.S.Purchases[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *PurchaseRepo) GetLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	var out []*entity.PurchaseLine
	for _, l := range r.S.PurchaseLines {
		if l.PurchaseID == purchaseID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

// AccountingRepo libro contable en memoria (append-only).
type AccountingRepo struct{ S *Store }

func (r *AccountingRepo) Create(entry *entity.AccountingEntry) error {
	cp := *entry
	r.S.Entries = append(r.S.Entries, &cp)
	return nil
}

func (r *AccountingRepo) Sum(_ context.Context, kind, branchID string, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.S.Entries {
		if e.Kind == kind && e.BranchID == branchID && !e.Date.Before(from) && !e.Date.After(to) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (r *AccountingRepo) Summary(_ context.Context, branchID string, from, to time.Time) (*repository.LedgerSummary, error) {
	var s repository.LedgerSummary
	for _, e := range r.S.Entries {
		if e.BranchID != branchID || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		s.Count++
		if e.Kind == entity.EntryKindIncome {
			s.Income = s.Income.Add(e.Amount)
		} else {
			s.Expense = s.Expense.Add(e.Amount)
		}
	}
	return &s, nil
}

func (r *AccountingRepo) ListByBranch(_ context.Context, branchID string, from, to time.Time) ([]*entity.AccountingEntry, error) {
	var out []*entity.AccountingEntry
	for _, e := range r.S.Entries {
		if e.BranchID == branchID && !e.Date.Before(from) && !e.Date.After(to) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── TxRunner falso ────────────────────────────────────────────────────────────

// TxRunner ejecuta los callbacks sobre el Store con semántica transaccional:
// foto antes, restauración si el callback falla. ConflictsLeft > 0 simula
// fallos de serialización: cada Run revierte y devuelve ErrTxConflict hasta
// agotarlos.
type TxRunner struct {
	S             *Store
	ConflictsLeft int
	Runs          int // transacciones intentadas
}

func (t *TxRunner) run(fn func() error) error {
	t.Runs++
	snapshot := t.S.clone()
	if t.ConflictsLeft > 0 {
		t.ConflictsLeft--
		*t.S = *snapshot
		return domain.ErrTxConflict
	}
	if err := fn(); err != nil {
		*t.S = *snapshot
		return err
	}
	return nil
}

func (t *TxRunner) RunSale(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	saleRepo repository.SaleRepository,
	acctRepo repository.AccountingRepository,
) error) error {
	return t.run(func() error {
		return fn(&MovementRepo{t.S}, &StockRepo{t.S}, &SaleRepo{t.S}, &AccountingRepo{t.S})
	})
}

func (t *TxRunner) RunPurchase(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	purchaseRepo repository.PurchaseRepository,
	acctRepo repository.AccountingRepository,
) error) error {
	return t.run(func() error {
		return fn(&MovementRepo{t.S}, &StockRepo{t.S}, &ItemRepo{t.S}, &PurchaseRepo{t.S}, &AccountingRepo{t.S})
	})
}

func (t *TxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
) error) error {
	return t.run(func() error {
		return fn(&MovementRepo{t.S}, &StockRepo{t.S})
	})
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
