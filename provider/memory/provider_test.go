package memory_test

import (
	"testing"

	"github.com/dogmatiq/projector/provider"
	. "github.com/dogmatiq/projector/provider/memory"
	"github.com/dogmatiq/projector/provider/providertest"
)

func TestProvider(t *testing.T) {
	providertest.RunTests(
		t,
		func(t *testing.T) provider.Provider {
			return &Provider{}
		},
	)
}
