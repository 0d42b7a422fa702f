package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dogmatiq/projector"
	"github.com/dogmatiq/projector/internal/test"
	"github.com/dogmatiq/projector/provider/memory"
)

func TestCartRegistry(t *testing.T) {
	t.Parallel()

	reg, err := newCartRegistry()
	if err != nil {
		t.Fatal(err)
	}

	ctx := test.Context(t)
	s := projector.New(
		reg,
		projector.WithProvider(&memory.Provider{}),
		projector.WithLogger(test.NewLogger(t)),
	)

	lines := []string{
		`{"entityTypeName": "Cart", "value": {"cartId": "c1", "items": ["apple"]}}`,
		`{"entityTypeName": "Cart", "value": {"cartId": "c1", "items": ["apple", "pear"]}}`,
		`{"entityTypeName": "Cart", "value": {"cartId": "c1", "items": []}}`,
	}

	for _, line := range lines {
		snapshot, err := parseSnapshot([]byte(line))
		if err != nil {
			t.Fatal(err)
		}

		if err := s.Project(ctx, snapshot); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := s.FetchReadModel(ctx, "CartSummary", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if summary != nil {
		t.Fatalf("expected the summary of an empty cart to be deleted, got %v", summary)
	}

	audit, err := s.FetchReadModel(ctx, "CartAudit", "c1")
	if err != nil {
		t.Fatal(err)
	}

	test.Expect(
		t,
		"unexpected audit revision",
		audit.Revision,
		uint64(3),
	)

	test.Expect(
		t,
		"unexpected audit change count",
		audit.Value.GetFields()["changes"].GetNumberValue(),
		3.0,
	)
}

func TestParseSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("it returns an error if the entity type is missing", func(t *testing.T) {
		t.Parallel()

		if _, err := parseSnapshot([]byte(`{"value": {}}`)); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("it returns an error if the line is not valid JSON", func(t *testing.T) {
		t.Parallel()

		if _, err := parseSnapshot([]byte(`{`)); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("it uses an empty value if none is given", func(t *testing.T) {
		t.Parallel()

		s, err := parseSnapshot([]byte(`{"entityTypeName": "Cart"}`))
		if err != nil {
			t.Fatal(err)
		}

		if s.Value == nil || len(s.Value.GetFields()) != 0 {
			t.Fatalf("expected an empty value, got %v", s.Value)
		}
	})
}

func TestPrintReadModels(t *testing.T) {
	t.Parallel()

	t.Run("it prints read models addressed by numeric join keys", func(t *testing.T) {
		t.Parallel()

		reg, err := newCartRegistry()
		if err != nil {
			t.Fatal(err)
		}

		ctx := test.Context(t)
		s := projector.New(
			reg,
			projector.WithProvider(&memory.Provider{}),
			projector.WithLogger(test.NewLogger(t)),
		)

		snapshot, err := parseSnapshot([]byte(`{"entityTypeName": "Cart", "value": {"cartId": 7, "items": ["apple"]}}`))
		if err != nil {
			t.Fatal(err)
		}

		if err := s.Project(ctx, snapshot); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := printReadModels(ctx, &buf, s, reg, snapshot); err != nil {
			t.Fatal(err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		test.Expect(t, "unexpected number of lines", len(lines), 2)

		for i, prefix := range []string{"CartSummary 7 @1 ", "CartAudit 7 @1 "} {
			if !strings.HasPrefix(lines[i], prefix) {
				t.Fatalf("expected line %q to start with %q", lines[i], prefix)
			}
		}
	})
}
