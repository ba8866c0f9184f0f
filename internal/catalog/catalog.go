package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/multierr"
)

// ErrInvalid is returned when a catalog fails load-time validation.
var ErrInvalid = eris.New("invalid lender catalog")

// Catalog is an immutable, validated, ordered set of lender products.
// Catalog order is significant: it breaks ties when offers are ranked.
type Catalog struct {
	products []Product
	byID     map[string]int
	source   string
	loadedAt time.Time
}

// New validates products, applies defaults, and returns a catalog that owns
// private copies of them.
func New(products []Product) (*Catalog, error) {
	return newCatalog(products, "")
}

func newCatalog(products []Product, source string) (*Catalog, error) {
	normalized := make([]Product, 0, len(products))
	for _, p := range products {
		p = p.clone()
		for i, state := range p.States {
			p.States[i] = strings.ToUpper(strings.TrimSpace(state))
		}
		normalized = append(normalized, p.withDefaults())
	}

	if err := Validate(normalized); err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(normalized))
	for i, p := range normalized {
		byID[p.ID] = i
	}

	return &Catalog{
		products: normalized,
		byID:     byID,
		source:   source,
		loadedAt: time.Now(),
	}, nil
}

// Validate checks every product and reports all problems at once.
func Validate(products []Product) error {
	var errs error
	seen := make(map[string]int, len(products))

	for i, p := range products {
		label := fmt.Sprintf("lender[%d]", i)
		if p.ID != "" {
			label = fmt.Sprintf("lender %q", p.ID)
		}

		if strings.TrimSpace(p.ID) == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s: id is required", label))
		} else if prev, dup := seen[p.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%s: duplicate id (also lender[%d])", label, prev))
		} else {
			seen[p.ID] = i
		}

		if strings.TrimSpace(p.Name) == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s: name is required", label))
		}
		if len(p.Terms) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: at least one term is required", label))
		}
		for _, term := range p.Terms {
			if term <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s: term %d must be positive", label, term))
			}
		}
		if p.BaseRate < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: baseRate must not be negative", label))
		}
		if p.MarginBps < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: marginBps must not be negative", label))
		}
		if p.MaxDTI < 0 || p.MaxLTV < 0 || p.MinIncomeMonthly < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: affordability bounds must not be negative", label))
		}
		if p.Fees.Origination < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: origination fee must not be negative", label))
		}
		for _, state := range p.States {
			if len(state) != 2 {
				errs = multierr.Append(errs, fmt.Errorf("%s: state %q is not a two-letter code", label, state))
			}
		}
	}

	if errs == nil {
		return nil
	}
	return eris.Wrapf(ErrInvalid, "%d problem(s): %v", len(multierr.Errors(errs)), errs)
}

// Products returns the products in catalog order. The returned slice is a
// copy; the products' term and state lists must be treated as read-only.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i].clone(), true
}

// Source names the file the catalog was loaded from, if any.
func (c *Catalog) Source() string { return c.source }

// LoadedAt is when the catalog was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }
