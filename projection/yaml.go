package projection

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type bindingDocument struct {
	Bindings []struct {
		Entity    string `yaml:"entity"`
		ReadModel string `yaml:"readModel"`
		JoinKey   string `yaml:"joinKey"`
	} `yaml:"bindings"`
}

// DeclareYAML declares the bindings described by the YAML document in r.
//
// The document has the form:
//
//	bindings:
//	  - entity: Cart
//	    readModel: CartSummary
//	    joinKey: cartId
//
// The functions that implement the bindings must still be registered using
// [RegistryBuilder.Implement].
func (b *RegistryBuilder) DeclareYAML(r io.Reader) error {
	var doc bindingDocument

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("unable to parse binding declarations: %w", err)
	}

	for i, d := range doc.Bindings {
		switch {
		case d.Entity == "":
			return fmt.Errorf("binding #%d: entity must not be empty", i)
		case d.ReadModel == "":
			return fmt.Errorf("binding #%d: read model must not be empty", i)
		case d.JoinKey == "":
			return fmt.Errorf("binding #%d: join key must not be empty", i)
		}
	}

	seen := map[funcKey]struct{}{}
	for i, d := range doc.Bindings {
		k := funcKey{d.Entity, d.ReadModel}
		_, dup := seen[k]
		if _, ok := b.declared[k]; ok || dup {
			return fmt.Errorf("binding #%d: %s is already bound to %s", i, d.ReadModel, d.Entity)
		}
		seen[k] = struct{}{}
	}

	for _, d := range doc.Bindings {
		b.Declare(d.Entity, d.ReadModel, d.JoinKey)
	}

	return nil
}
