package projection

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// Func is a projection function.
//
// It derives the new state of a read model from an entity's state and the
// current state of the read model. current is nil if the read model does not
// exist.
//
// It must not perform any I/O.
type Func func(entity *structpb.Struct, current *ReadModel) Outcome

// OutcomeKind is an enumeration of the kinds of [Outcome].
type OutcomeKind int

const (
	// KindNothing leaves the read model unchanged.
	KindNothing OutcomeKind = iota

	// KindReplace replaces the read model in its entirety.
	KindReplace

	// KindDelete removes the read model.
	KindDelete
)

func (k OutcomeKind) String() string {
	switch k {
	case KindNothing:
		return "nothing"
	case KindReplace:
		return "replace"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of a projection function.
//
// The zero value leaves the read model unchanged.
type Outcome struct {
	kind OutcomeKind
	rm   *ReadModel
}

// Replace returns an [Outcome] that stores the value of rm verbatim, replacing
// any existing read model.
//
// rm.ID must be empty or equal to the join key value. rm.Revision is ignored.
func Replace(rm *ReadModel) Outcome {
	if rm == nil {
		panic("replacement read model must not be nil")
	}

	return Outcome{KindReplace, rm}
}

// Delete returns an [Outcome] that removes the read model.
func Delete() Outcome {
	return Outcome{kind: KindDelete}
}

// Nothing returns an [Outcome] that leaves the read model unchanged.
func Nothing() Outcome {
	return Outcome{}
}

// Kind returns the kind of the outcome.
func (o Outcome) Kind() OutcomeKind {
	return o.kind
}

// ReadModel returns the replacement read model.
//
// It returns nil unless the outcome is of kind [KindReplace].
func (o Outcome) ReadModel() *ReadModel {
	return o.rm
}

func (o Outcome) String() string {
	if o.kind == KindReplace {
		return fmt.Sprintf("replace(%s)", o.rm.ID)
	}
	return o.kind.String()
}
