package catalog

import (
	"bytes"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type catalogDocument struct {
	Lenders []Product `yaml:"lenders"`
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}

	products, err := decode(data)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: decode %s", path)
	}

	return newCatalog(products, path)
}

// Parse decodes and validates catalog data. The document is either a list of
// products or a mapping with a "lenders" list. JSON is accepted as YAML.
func Parse(data []byte) (*Catalog, error) {
	products, err := decode(data)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: decode")
	}
	return newCatalog(products, "")
}

func decode(data []byte) ([]Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, eris.Wrap(ErrInvalid, "empty document")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(trimmed, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, eris.Wrap(ErrInvalid, "empty document")
	}

	dec := yaml.NewDecoder(bytes.NewReader(trimmed))
	dec.KnownFields(true)

	switch root.Content[0].Kind {
	case yaml.SequenceNode:
		var products []Product
		if err := dec.Decode(&products); err != nil {
			return nil, err
		}
		return products, nil
	case yaml.MappingNode:
		var doc catalogDocument
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Lenders, nil
	default:
		return nil, eris.Wrap(ErrInvalid, "expected a list of lenders or a mapping with a lenders key")
	}
}
