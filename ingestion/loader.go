package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/memrepo/core"
	"github.com/poiesic/memrepo/storage"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 100 * time.Millisecond
)

// Loader validates and saves batches of items into a store.
type Loader struct {
	store       storage.Store[core.Item, core.ID]
	pool        *ants.Pool
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
	progress    *Progress
	now         func() time.Time
}

// Option configures a Loader.
type Option func(*Loader) error

// WithPoolSize sets the worker pool size for concurrent preparation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		if l.pool != nil {
			l.pool.Release()
		}
		l.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithRetry sets how many times a failed save is attempted and the base
// backoff delay between attempts.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(l *Loader) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		l.maxAttempts = maxAttempts
		l.retryDelay = baseDelay
		return nil
	}
}

// WithProgress reports each saved item to p.
func WithProgress(p *Progress) Option {
	return func(l *Loader) error {
		l.progress = p
		return nil
	}
}

// NewLoader creates a new Loader writing to store.
func NewLoader(store storage.Store[core.Item, core.ID], opts ...Option) (*Loader, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		store:       store,
		pool:        pool,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		logger:      slog.Default(),
		now:         time.Now,
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(l); optErr != nil {
			l.Release()
			return nil, optErr
		}
	}

	return l, nil
}

// Load prepares items and appends them to the store in input order.
//
// Preparation validates each item, assigns IDFromContent(ContentKey()) when
// Id is zero, stamps InsertedAt when unset and copies Metadata. The caller's
// items are not modified. If any item fails preparation nothing is saved.
//
// Returns the prepared items that were saved. On a save error the returned
// slice holds the items saved before the failure.
func (l *Loader) Load(ctx context.Context, items ...*core.Item) ([]core.Item, error) {
	prepared, err := l.prepareAll(items)
	if err != nil {
		return nil, err
	}

	for i, item := range prepared {
		err := RetryWithBackoff(ctx, func() error {
			saveErr := l.store.Save(ctx, item)
			if errors.Is(saveErr, storage.ErrStorageClosed) {
				return Permanent(saveErr)
			}
			return saveErr
		}, l.maxAttempts, l.retryDelay)
		if err != nil {
			l.logger.Error("error saving item", "index", i, "id", item.Id, "err", err)
			return prepared[:i], fmt.Errorf("save item %d: %w", i, err)
		}
		if l.progress != nil {
			l.progress.Add(1)
		}
	}

	l.logger.Debug("loaded items", "count", len(prepared))
	return prepared, nil
}

func (l *Loader) prepareAll(items []*core.Item) ([]core.Item, error) {
	prepared := make([]core.Item, len(items))
	errs := make([]error, len(items))
	now := l.now().UTC().Truncate(time.Microsecond)

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		submitErr := l.pool.Submit(func() {
			defer wg.Done()
			prepared[i], errs[i] = prepare(item, now)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			errs[i] = fmt.Errorf("item %d: %w", i, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return prepared, nil
}

func prepare(item *core.Item, now time.Time) (core.Item, error) {
	if err := core.ValidateItem(item); err != nil {
		return core.Item{}, err
	}

	out := *item
	if out.Id == 0 {
		out.Id = core.IDFromContent(out.ContentKey())
	}
	if out.InsertedAt.IsZero() {
		out.InsertedAt = now
	}
	out.Metadata = maps.Clone(item.Metadata)
	return out, nil
}

// Release releases the worker pool.
// The loader should not be used after calling Release.
func (l *Loader) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}
