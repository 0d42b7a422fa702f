// Package instrumented adds telemetry to read model providers.
package instrumented

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dogmatiq/projector/internal/telemetry"
	"github.com/dogmatiq/projector/projection"
	"github.com/dogmatiq/projector/provider"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
)

// Provider is a decorator that adds instrumentation to a [provider.Provider].
type Provider struct {
	Next      provider.Provider
	Telemetry *telemetry.Recorder

	ops       telemetry.Instrument[int64]
	valueSize telemetry.Instrument[int64]
}

var _ provider.Provider = (*Provider)(nil)

// New returns a new instrumented provider that forwards to next.
func New(next provider.Provider, p *telemetry.Provider) *Provider {
	r := p.Recorder(
		"provider",
		telemetry.Type("provider.type", next),
		telemetry.String("provider.handle", handleID()),
	)

	return &Provider{
		Next:      next,
		Telemetry: r,
		ops: r.Counter(
			"provider.operations",
			"{operation}",
			"The number of read model operations performed by the provider.",
		),
		valueSize: r.Histogram(
			"provider.value.size",
			"By",
			"The sizes of the read model values that have been read and written.",
		),
	}
}

// Fetch returns the read model of the given type with the given ID.
func (p *Provider) Fetch(
	ctx context.Context,
	readModelType, id string,
) (*projection.ReadModel, error) {
	ctx, span := p.Telemetry.StartSpan(
		ctx,
		"readmodel.fetch",
		telemetry.String("readmodel.type", readModelType),
		telemetry.String("readmodel.id", id),
	)
	defer span.End()

	p.ops(ctx, 1, telemetry.ReadDirection, telemetry.String("operation", "fetch"))

	rm, err := p.Next.Fetch(ctx, readModelType, id)
	if err != nil {
		span.Error("could not fetch read model", err)
		return nil, err
	}

	if rm == nil {
		span.SetAttributes(telemetry.Bool("readmodel.exists", false))
		span.Debug("read model does not exist")
		return nil, nil
	}

	size := proto.Size(rm.Value)
	p.valueSize(ctx, int64(size), telemetry.ReadDirection)

	span.SetAttributes(
		telemetry.Bool("readmodel.exists", true),
		telemetry.Int("readmodel.revision", rm.Revision),
		telemetry.Int("readmodel.size", size),
	)
	span.Debug("fetched read model")

	return rm, nil
}

// Store persists rm.
func (p *Provider) Store(
	ctx context.Context,
	readModelType string,
	rm *projection.ReadModel,
) error {
	size := proto.Size(rm.Value)

	ctx, span := p.Telemetry.StartSpan(
		ctx,
		"readmodel.store",
		telemetry.String("readmodel.type", readModelType),
		telemetry.String("readmodel.id", rm.ID),
		telemetry.Int("readmodel.revision", rm.Revision),
		telemetry.Int("readmodel.size", size),
	)
	defer span.End()

	p.ops(ctx, 1, telemetry.WriteDirection, telemetry.String("operation", "store"))
	p.valueSize(ctx, int64(size), telemetry.WriteDirection)

	if err := p.Next.Store(ctx, readModelType, rm); err != nil {
		span.Error("could not store read model", err)
		return err
	}

	span.Debug("stored read model")

	return nil
}

// Delete removes rm.
func (p *Provider) Delete(
	ctx context.Context,
	readModelType string,
	rm *projection.ReadModel,
) error {
	ctx, span := p.Telemetry.StartSpan(
		ctx,
		"readmodel.delete",
		telemetry.String("readmodel.type", readModelType),
		telemetry.Bool("readmodel.exists", rm != nil),
	)
	defer span.End()

	if rm != nil {
		span.SetAttributes(
			telemetry.String("readmodel.id", rm.ID),
			telemetry.Int("readmodel.revision", rm.Revision),
		)
	}

	p.ops(ctx, 1, telemetry.WriteDirection, telemetry.String("operation", "delete"))

	if err := p.Next.Delete(ctx, readModelType, rm); err != nil {
		span.Error("could not delete read model", err)
		return err
	}

	span.Debug("deleted read model")

	return nil
}

var handleCounter atomic.Uint64

// handleID returns a unique identifier for an instrumented provider.
//
// It includes a counter component for easy visual identification by humans, and
// a UUID component for global correlation in observability tools.
func handleID() string {
	return fmt.Sprintf(
		"#%d %s",
		handleCounter.Add(1),
		uuid.NewString(),
	)
}
