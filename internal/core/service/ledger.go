package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/smallbatch/roastery/internal/core/domain"
	"github.com/smallbatch/roastery/internal/metrics"
	"github.com/smallbatch/roastery/internal/port"
)

const (
	defaultStoreTimeout = 5 * time.Second
	defaultRetries      = 3
)

// Ledger applies validated quantity decrements to stock records. One
// instance serves both entity kinds; the store argument selects which
// table the decrement lands on.
type Ledger struct {
	cache   port.ListingCache // optional
	log     *slog.Logger
	timeout time.Duration
	retries int
}

func NewLedger(cache port.ListingCache, log *slog.Logger, timeout time.Duration, retries int) *Ledger {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	if retries <= 0 {
		retries = defaultRetries
	}
	return &Ledger{
		cache:   cache,
		log:     log,
		timeout: timeout,
		retries: retries,
	}
}

// Withdraw removes quantity from the record identified by id. The stored
// quantity never goes negative: a request larger than what is on hand is
// rejected without touching the record. Concurrent withdrawals on the same
// id serialize through an optimistic version check; after bounded retries
// the call gives up with domain.ErrConflict.
func (l *Ledger) Withdraw(ctx context.Context, store port.StockStore, id int64, quantity float64) (domain.StockRecord, error) {
	kind := store.Kind()

	// written as a negated comparison so NaN is rejected too
	if !(quantity > 0) {
		return nil, domain.ErrInvalidQuantity
	}

	for attempt := 0; attempt < l.retries; attempt++ {
		rec, err := l.load(ctx, store, id)
		if err != nil {
			metrics.WithdrawTotal.WithLabelValues(kind.Label, "error").Inc()
			return nil, &domain.PersistenceError{Intent: "load " + kind.Name, Err: err}
		}
		if rec == nil {
			metrics.WithdrawTotal.WithLabelValues(kind.Label, "not_found").Inc()
			return nil, &domain.NotFoundError{Kind: kind, ID: id}
		}

		available := rec.Available()
		if quantity > available {
			metrics.WithdrawTotal.WithLabelValues(kind.Label, "insufficient_stock").Inc()
			return nil, &domain.InsufficientStockError{
				Kind:      kind,
				Requested: quantity,
				Available: available,
			}
		}

		updated, ok, err := l.swap(ctx, store, id, rec.RecordVersion(), available-quantity)
		if err != nil {
			metrics.WithdrawTotal.WithLabelValues(kind.Label, "error").Inc()
			return nil, &domain.PersistenceError{Intent: kind.Verb + " " + kind.Name, Err: err}
		}
		if ok {
			metrics.WithdrawTotal.WithLabelValues(kind.Label, "ok").Inc()
			l.invalidateListings(ctx)
			l.log.Info("withdraw applied",
				"entity", kind.Label, "id", id,
				"quantity", quantity, "remaining", updated.Available())
			return updated, nil
		}

		l.log.Debug("withdraw lost version race, retrying",
			"entity", kind.Label, "id", id, "attempt", attempt+1)
	}

	metrics.WithdrawTotal.WithLabelValues(kind.Label, "conflict").Inc()
	return nil, domain.ErrConflict
}

func (l *Ledger) load(ctx context.Context, store port.StockStore, id int64) (domain.StockRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return store.Load(ctx, id)
}

func (l *Ledger) swap(ctx context.Context, store port.StockStore, id, seenVersion int64, next float64) (domain.StockRecord, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return store.CompareAndDecrement(ctx, id, seenVersion, next)
}

func (l *Ledger) invalidateListings(ctx context.Context) {
	if l.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := l.cache.InvalidateListings(ctx); err != nil {
		l.log.Warn("listing cache invalidation failed", "err", err)
	}
}
