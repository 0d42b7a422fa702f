package projector

import (
	"context"
	"time"

	"github.com/dogmatiq/projector/internal/config"
	"github.com/dogmatiq/projector/internal/invoker"
	"github.com/dogmatiq/projector/internal/joinkey"
	"github.com/dogmatiq/projector/internal/telemetry"
	"github.com/dogmatiq/projector/projection"
	"github.com/dogmatiq/projector/provider"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Store projects entity snapshots into read models.
type Store struct {
	registry         *projection.Registry
	provider         provider.Provider
	concurrencyLimit int

	telemetry   *telemetry.Recorder
	projections telemetry.Instrument[int64]
	inflight    telemetry.Instrument[int64]
	duration    telemetry.Instrument[int64]
}

// New returns a [Store] that projects snapshots using the bindings in reg.
func New(reg *projection.Registry, options ...StoreOption) *Store {
	if reg == nil {
		panic("registry must not be nil")
	}

	cfg := config.New(options)
	r := cfg.Telemetry.Recorder("projector")

	return &Store{
		registry:         reg,
		provider:         cfg.Provider,
		concurrencyLimit: cfg.ConcurrencyLimit,
		telemetry:        r,
		projections: r.Counter(
			"projections",
			"{projection}",
			"The number of bindings that have been projected, by outcome.",
		),
		inflight: r.UpDownCounter(
			"bindings.inflight",
			"{binding}",
			"The number of bindings that are currently being projected.",
		),
		duration: r.Histogram(
			"projection.duration",
			"ms",
			"The time taken to project a single binding.",
		),
	}
}

// Project projects s into every read model bound to its entity type.
//
// Bindings are processed concurrently. A failure in one binding does not
// prevent the others from running to completion. The returned error combines
// the failures of all bindings, each wrapped in a
// [*projection.BindingError].
func (st *Store) Project(ctx context.Context, s projection.EntitySnapshot) error {
	ctx, span := st.telemetry.StartSpan(
		ctx,
		"entity.project",
		telemetry.String("entity.type", s.EntityTypeName),
	)
	defer span.End()

	bindings := st.registry.Bindings(s.EntityTypeName)
	span.SetAttributes(telemetry.Int("entity.bindings", len(bindings)))

	if len(bindings) == 0 {
		span.Debug("no projections")
		return nil
	}

	var g errgroup.Group
	if st.concurrencyLimit > 0 {
		g.SetLimit(st.concurrencyLimit)
	}

	errs := make([]error, len(bindings))

	for i, b := range bindings {
		i, b := i, b
		g.Go(func() error {
			if err := st.projectBinding(ctx, s, b); err != nil {
				errs[i] = &projection.BindingError{
					Binding: b,
					Err:     err,
				}
			}
			return nil
		})
	}

	_ = g.Wait()

	if err := multierr.Combine(errs...); err != nil {
		span.Error(
			"unable to project entity snapshot",
			err,
			telemetry.Int("entity.failed_bindings", len(multierr.Errors(err))),
		)
		return err
	}

	span.Debug("projected entity snapshot")

	return nil
}

// projectBinding projects s into the read model described by b.
func (st *Store) projectBinding(
	ctx context.Context,
	s projection.EntitySnapshot,
	b projection.Binding,
) (err error) {
	ctx, span := st.telemetry.StartSpan(
		ctx,
		"binding.project",
		telemetry.String("entity.type", b.EntityTypeName),
		telemetry.String("readmodel.type", b.ReadModelTypeName),
		telemetry.String("binding.join_key", b.JoinKey),
	)
	defer span.End()

	st.inflight(ctx, 1)
	start := time.Now()
	outcome := "failed"

	defer func() {
		st.inflight(ctx, -1)
		st.duration(
			ctx,
			time.Since(start).Milliseconds(),
			telemetry.String("readmodel.type", b.ReadModelTypeName),
		)
		st.projections(
			ctx,
			1,
			telemetry.String("readmodel.type", b.ReadModelTypeName),
			telemetry.String("outcome", outcome),
		)

		if err != nil {
			span.Error("unable to project binding", err)
		}
	}()

	id, err := joinkey.Resolve(s, b)
	if err != nil {
		return err
	}

	span.SetAttributes(telemetry.String("readmodel.id", id))
	span.Debug("resolved join key")

	current, err := st.provider.Fetch(ctx, b.ReadModelTypeName, id)
	if err != nil {
		return err
	}

	span.SetAttributes(telemetry.Bool("readmodel.exists", current != nil))

	o, err := invoker.Invoke(st.registry, b, s.Value, current)
	if err != nil {
		return err
	}

	span.SetAttributes(telemetry.Stringer("projection.outcome", o.Kind()))
	span.Debug("invoked projection function")

	switch o.Kind() {
	case projection.KindDelete:
		if err := st.provider.Delete(ctx, b.ReadModelTypeName, current); err != nil {
			return err
		}
		span.Debug("deleted read model")

	case projection.KindReplace:
		rm, err := replacement(b, id, current, o.ReadModel())
		if err != nil {
			return err
		}
		if err := st.provider.Store(ctx, b.ReadModelTypeName, rm); err != nil {
			return err
		}
		span.Debug("stored read model")

	default:
		span.Debug("skipped read model")
	}

	outcome = o.Kind().String()

	return nil
}

// replacement returns the read model to store in place of current.
//
// The stored read model is always addressed by the join key value id, and
// carries the revision of the fetched read model, regardless of the ID and
// revision set by the projection function.
func replacement(
	b projection.Binding,
	id string,
	current, r *projection.ReadModel,
) (*projection.ReadModel, error) {
	if r.ID != "" && r.ID != id {
		return nil, &projection.IDMismatchError{
			ReadModelTypeName: b.ReadModelTypeName,
			JoinKeyValue:      id,
			ID:                r.ID,
		}
	}

	rm := &projection.ReadModel{
		ID:    id,
		Value: r.Value,
	}

	if current != nil {
		rm.Revision = current.Revision
	}

	return rm, nil
}

// FetchReadModel returns the read model of the given type with the given ID.
//
// It returns nil if the read model does not exist.
func (st *Store) FetchReadModel(
	ctx context.Context,
	readModelType, id string,
) (*projection.ReadModel, error) {
	ctx, span := st.telemetry.StartSpan(
		ctx,
		"readmodel.query",
		telemetry.String("readmodel.type", readModelType),
		telemetry.String("readmodel.id", id),
	)
	defer span.End()

	rm, err := st.provider.Fetch(ctx, readModelType, id)
	if err != nil {
		span.Error("unable to fetch read model", err)
		return nil, err
	}

	span.Debug("fetched read model", telemetry.Bool("readmodel.exists", rm != nil))

	return rm, nil
}
