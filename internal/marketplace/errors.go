package marketplace

import "github.com/rotisserie/eris"

var (
	// ErrInvalidRequest means the application is missing or pd is not a
	// finite number. It is the only input condition that aborts a search.
	ErrInvalidRequest = eris.New("invalid search request")

	// ErrCatalogUnavailable means no lender catalog is loaded or it is empty.
	ErrCatalogUnavailable = eris.New("lender catalog unavailable")
)
