// Package memory is an in-memory implementation of [provider.Provider].
package memory

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dogmatiq/projector/projection"
	"github.com/dogmatiq/projector/provider"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// shardCount is the number of independently locked partitions of the store.
const shardCount = 16

// Provider is an implementation of [provider.Provider] that stores read models
// in memory.
//
// The zero value is ready to use.
type Provider struct {
	shards [shardCount]shard
}

var _ provider.Provider = (*Provider)(nil)

type shard struct {
	sync.RWMutex
	readModels map[key]record
}

type key struct {
	Type string
	ID   string
}

type record struct {
	Revision uint64
	Value    *structpb.Struct
}

func (p *Provider) shardFor(k key) *shard {
	h := xxhash.New()
	_, _ = h.WriteString(k.Type)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(k.ID)

	return &p.shards[h.Sum64()%shardCount]
}

// Fetch returns the read model of the given type with the given ID.
func (p *Provider) Fetch(
	ctx context.Context,
	readModelType, id string,
) (*projection.ReadModel, error) {
	k := key{readModelType, id}
	s := p.shardFor(k)

	s.RLock()
	r, ok := s.readModels[k]
	s.RUnlock()

	if !ok {
		return nil, ctx.Err()
	}

	return &projection.ReadModel{
		ID:       id,
		Revision: r.Revision,
		Value:    clone(r.Value),
	}, ctx.Err()
}

// Store persists rm.
func (p *Provider) Store(
	ctx context.Context,
	readModelType string,
	rm *projection.ReadModel,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k := key{readModelType, rm.ID}
	s := p.shardFor(k)

	s.Lock()
	defer s.Unlock()

	if s.readModels[k].Revision != rm.Revision {
		return &provider.ConflictError{
			ReadModelTypeName: readModelType,
			ID:                rm.ID,
			Revision:          rm.Revision,
		}
	}

	if s.readModels == nil {
		s.readModels = map[key]record{}
	}

	s.readModels[k] = record{
		Revision: rm.Revision + 1,
		Value:    clone(rm.Value),
	}

	return nil
}

// Delete removes rm.
func (p *Provider) Delete(
	ctx context.Context,
	readModelType string,
	rm *projection.ReadModel,
) error {
	if rm == nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	k := key{readModelType, rm.ID}
	s := p.shardFor(k)

	s.Lock()
	defer s.Unlock()

	r, ok := s.readModels[k]
	if !ok {
		return nil
	}

	if r.Revision != rm.Revision {
		return &provider.ConflictError{
			ReadModelTypeName: readModelType,
			ID:                rm.ID,
			Revision:          rm.Revision,
		}
	}

	delete(s.readModels, k)

	return nil
}

func clone(v *structpb.Struct) *structpb.Struct {
	if v == nil {
		return &structpb.Struct{}
	}
	return proto.Clone(v).(*structpb.Struct)
}
