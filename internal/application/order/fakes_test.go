package order

import (
	"context"
	"sync"
	"time"

	"github.com/giftshop/backend/internal/domain/catalog"
	"github.com/giftshop/backend/internal/domain/order"
	"github.com/giftshop/backend/internal/domain/promotion"
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// memOrderRepository is an order.Repository with a unique index on the code
type memOrderRepository struct {
	mu          sync.Mutex
	byCode      map[string]order.Order
	createErr  error
	staleReads int
	readDelay  time.Duration
	creates    int
}

func newMemOrderRepository() *memOrderRepository {
	return &memOrderRepository{byCode: make(map[string]order.Order)}
}

func (r *memOrderRepository) Create(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byCode[o.Code]; ok {
		return order.ErrDuplicateCode
	}
	stored := *o
	stored.ClearDomainEvents()
	r.byCode[o.Code] = stored
	return nil
}

func (r *memOrderRepository) FindByCode(_ context.Context, code string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byCode[order.NormalizeCode(code)]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return &o, nil
}

func (r *memOrderRepository) LatestCodeWithPrefix(_ context.Context, prefix string) (string, error) {
	latest := r.latest(prefix)
	// widen the window between reading the sequence and inserting
	if r.readDelay > 0 {
		time.Sleep(r.readDelay)
	}
	return latest, nil
}

func (r *memOrderRepository) latest(prefix string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.staleReads > 0 {
		r.staleReads--
		return ""
	}
	best, bestSeq := "", 0
	for code := range r.byCode {
		if seq, ok := order.SequenceOf(code, prefix); ok && seq > bestSeq {
			best, bestSeq = code, seq
		}
	}
	return best
}

// seed stores bare orders under codes, as if placed earlier
func (r *memOrderRepository) seed(codes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range codes {
		r.byCode[code] = order.Order{Code: code, Status: order.StatusPending}
	}
}

func (r *memOrderRepository) UpdateStatus(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byCode[o.Code]
	if !ok {
		return order.ErrOrderNotFound
	}
	if stored.Version != o.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	stored.Status = o.Status
	stored.Version = o.Version
	stored.UpdatedAt = o.UpdatedAt
	r.byCode[o.Code] = stored
	return nil
}

func (r *memOrderRepository) FindAll(_ context.Context, filter order.Filter) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]order.Order, 0, len(r.byCode))
	for _, o := range r.byCode {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *memOrderRepository) Count(ctx context.Context, filter order.Filter) (int64, error) {
	all, err := r.FindAll(ctx, filter)
	return int64(len(all)), err
}

func (r *memOrderRepository) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byCode)
}

// memProductRepository serves a fixed product set
type memProductRepository struct {
	products map[uuid.UUID]catalog.Product
}

func newMemProductRepository(products ...*catalog.Product) *memProductRepository {
	r := &memProductRepository{products: make(map[uuid.UUID]catalog.Product)}
	for _, p := range products {
		r.products[p.ID] = *p
	}
	return r
}

func (r *memProductRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (r *memProductRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepository) FindAll(context.Context, catalog.ProductFilter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *memProductRepository) Count(context.Context, catalog.ProductFilter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *memProductRepository) Save(context.Context, *catalog.Product) error {
	return nil
}

// promoTable validates against a fixed percent and minimum per code
type promoTable map[string]struct {
	percent  int
	minOrder int64
	err      error
}

func (t promoTable) Validate(_ context.Context, code string, subtotal valueobject.Money) (int, error) {
	rule, ok := t[code]
	if !ok {
		return 0, promotion.ErrPromoNotFound
	}
	if rule.err != nil {
		return 0, rule.err
	}
	if subtotal.Amount().IntPart() < rule.minOrder {
		return 0, promotion.ErrPromoBelowMinimum
	}
	return rule.percent, nil
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// countingMetrics counts code collisions
type countingMetrics struct {
	mu         sync.Mutex
	collisions int
}

func (m *countingMetrics) RecordCodeCollision(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collisions++
}
