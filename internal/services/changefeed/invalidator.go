package changefeed

import (
	"context"
	"log/slog"
	"sync"
)

type Subscriber interface {
	Subscribe(ctx context.Context, tables ...string) (<-chan Change, error)
}

// Invalidator runs cache flushes when watched tables change.
type Invalidator struct {
	log *slog.Logger
	sub Subscriber

	mu       sync.Mutex
	handlers map[string][]func(Change)
}

func NewInvalidator(log *slog.Logger, sub Subscriber) *Invalidator {
	return &Invalidator{
		log:      log,
		sub:      sub,
		handlers: make(map[string][]func(Change)),
	}
}

// On registers fn for changes to table. Register before Run.
func (i *Invalidator) On(table string, fn func(Change)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.handlers[table] = append(i.handlers[table], fn)
}

// Run blocks until ctx ends or the subscription closes.
func (i *Invalidator) Run(ctx context.Context) error {
	i.mu.Lock()
	tables := make([]string, 0, len(i.handlers))
	for t := range i.handlers {
		tables = append(tables, t)
	}
	i.mu.Unlock()

	if len(tables) == 0 {
		<-ctx.Done()
		return nil
	}

	changes, err := i.sub.Subscribe(ctx, tables...)
	if err != nil {
		return err
	}

	i.log.Info("cache invalidator started", slog.Any("tables", tables))

	for c := range changes {
		i.mu.Lock()
		fns := i.handlers[c.Table]
		i.mu.Unlock()

		for _, fn := range fns {
			fn(c)
		}
		i.log.Debug("cache invalidated", slog.String("table", c.Table), slog.String("change_op", c.Op))
	}

	return nil
}
