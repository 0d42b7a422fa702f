package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dogmatiq/ferrite"
	"github.com/dogmatiq/projector"
	"github.com/dogmatiq/projector/internal/joinkey"
	"github.com/dogmatiq/projector/projection"
	"golang.org/x/exp/slog"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// main reads entity snapshots from STDIN, one JSON object per line, and
// projects them into the Cart read models. After each snapshot, the affected
// read models are written to STDOUT.
//
// Each line has the form:
//
//	{"entityTypeName": "Cart", "value": {"cartId": "c1", "items": ["apple"]}}
func main() {
	ferrite.Init()

	reg, err := newCartRegistry()
	if err != nil {
		panic(err)
	}

	s := projector.New(
		reg,
		projector.WithOptionsFromEnvironment(),
		projector.WithLogger(
			slog.New(
				slog.NewJSONHandler(
					os.Stderr,
					&slog.HandlerOptions{
						Level: slog.LevelDebug,
					},
				),
			),
		),
	)

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	if err := run(ctx, s, reg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	s *projector.Store,
	reg *projection.Registry,
) error {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		snapshot, err := parseSnapshot(line)
		if err != nil {
			return err
		}

		if err := s.Project(ctx, snapshot); err != nil {
			// The snapshot is not redelivered, so a failure is reported and
			// processing continues with the next line.
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		if err := printReadModels(ctx, os.Stdout, s, reg, snapshot); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func parseSnapshot(data []byte) (projection.EntitySnapshot, error) {
	var doc structpb.Struct
	if err := protojson.Unmarshal(data, &doc); err != nil {
		return projection.EntitySnapshot{}, fmt.Errorf("unable to parse entity snapshot: %w", err)
	}

	typeName := doc.GetFields()["entityTypeName"].GetStringValue()
	if typeName == "" {
		return projection.EntitySnapshot{}, fmt.Errorf("entity snapshot must specify an entityTypeName")
	}

	value := doc.GetFields()["value"].GetStructValue()
	if value == nil {
		value = &structpb.Struct{}
	}

	return projection.EntitySnapshot{
		EntityTypeName: typeName,
		Value:          value,
	}, nil
}

func printReadModels(
	ctx context.Context,
	w io.Writer,
	s *projector.Store,
	reg *projection.Registry,
	snapshot projection.EntitySnapshot,
) error {
	for _, b := range reg.Bindings(snapshot.EntityTypeName) {
		id, err := joinkey.Resolve(snapshot, b)
		if err != nil {
			return err
		}

		rm, err := s.FetchReadModel(ctx, b.ReadModelTypeName, id)
		if err != nil {
			return err
		}

		if rm == nil {
			fmt.Fprintf(w, "%s %s <deleted>\n", b.ReadModelTypeName, id)
			continue
		}

		fmt.Fprintf(
			w,
			"%s %s @%d %s\n",
			b.ReadModelTypeName,
			rm.ID,
			rm.Revision,
			protojson.Format(rm.Value),
		)
	}

	return nil
}
