package server

import (
	"github.com/iwvelando/lender-marketplace/internal/catalog"
	"github.com/iwvelando/lender-marketplace/internal/marketplace"
	"github.com/iwvelando/lender-marketplace/pkg/output"
)

const msgMissingAppOrPD = "Missing app or pd"

type searchRequest struct {
	App *marketplace.Application `json:"app"`
	PD  *float64                 `json:"pd"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type quoteResponse struct {
	output.ResultView
	PD             float64 `json:"pd"`
	APRRecommended float64 `json:"aprRecommended"`
	ModelVersion   string  `json:"modelVersion,omitempty"`
}

type lendersResponse struct {
	Lenders  []catalog.Product `json:"lenders"`
	Source   string            `json:"source,omitempty"`
	LoadedAt string            `json:"loadedAt"`
}
