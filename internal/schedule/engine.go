package schedule

import (
	"time"

	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/timegrid"

	"go.uber.org/zap"
)

// Options configures an Engine.
type Options struct {
	Grid     timegrid.Grid
	Location *time.Location
	// Defaults are the opening hours used until an admin stores others.
	Defaults        StaticWindows
	ReserveDuration bool
	// Now reads the current instant; tests pin it.
	Now func() time.Time
}

// Engine wires the availability components over one record store.
type Engine struct {
	Grid     timegrid.Grid
	Location *time.Location
	Now      func() time.Time

	Policy   *Policy
	Expander Expander
	Builder  *Builder
	Resolver *Resolver
	Guard    *Guard
	Blocks   *BlockCreator
}

// NewEngine builds an Engine reading and writing through store.
func NewEngine(store repository.Store, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Grid.Len() == 0 {
		opts.Grid = timegrid.Default()
	}
	logger = logger.Named("schedule")

	expander := Expander{Grid: opts.Grid}
	policy := &Policy{
		Grid:   opts.Grid,
		Source: StoredWindows{Store: store, Defaults: opts.Defaults},
	}
	builder := &Builder{
		Store:           store,
		Expander:        expander,
		Location:        opts.Location,
		Logger:          logger,
		ReserveDuration: opts.ReserveDuration,
	}
	resolver := &Resolver{
		Policy:   policy,
		Builder:  builder,
		Location: opts.Location,
		Logger:   logger,
	}

	return &Engine{
		Grid:     opts.Grid,
		Location: opts.Location,
		Now:      opts.Now,
		Policy:   policy,
		Expander: expander,
		Builder:  builder,
		Resolver: resolver,
		Guard: &Guard{
			Resolver:        resolver,
			Store:           store,
			Expander:        expander,
			Logger:          logger,
			ReserveDuration: opts.ReserveDuration,
		},
		Blocks: &BlockCreator{
			Store:    store,
			Expander: expander,
			Location: opts.Location,
			Logger:   logger,
		},
	}
}

// Today returns the current calendar date in the service timezone.
func (e *Engine) Today() string {
	today, _ := WallClock(e.Now(), e.Location)
	return today
}
