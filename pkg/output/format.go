// Package output provides utilities for formatting and displaying search results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iwvelando/lender-marketplace/internal/catalog"
	"github.com/iwvelando/lender-marketplace/internal/marketplace"
	"github.com/iwvelando/lender-marketplace/pkg/constants"
	"github.com/iwvelando/lender-marketplace/pkg/mathutil"
)

// ResultView is the wire form of a search result. DTI is nil when it is not
// a finite number, which JSON cannot carry.
type ResultView struct {
	Principal float64             `json:"principal"`
	DTI       *float64            `json:"dti"`
	LTV       float64             `json:"ltv"`
	Offers    []marketplace.Offer `json:"offers"`
}

// NewResultView converts result for encoding.
func NewResultView(result marketplace.Result) ResultView {
	view := ResultView{
		Principal: result.Principal,
		LTV:       result.LTV,
		Offers:    result.Offers,
	}
	if view.Offers == nil {
		view.Offers = []marketplace.Offer{}
	}
	if mathutil.IsFinite(result.DTI) {
		dti := result.DTI
		view.DTI = &dti
	}
	return view
}

// Write renders result in the named format.
func Write(w io.Writer, format string, result marketplace.Result) error {
	switch format {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, result)
	case constants.OutputFormatCSV:
		return CsvFormat(w, result)
	case constants.OutputFormatJSON:
		return JSONFormat(w, result)
	}
	return eris.Errorf("unknown output format %q", format)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result marketplace.Result) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	_, _ = p.Fprintf(&b, "Principal: $%.2f\n", result.Principal)
	_, _ = p.Fprintf(&b, "DTI:       %s\n", ratio(result.DTI))
	_, _ = p.Fprintf(&b, "LTV:       %s\n", ratio(result.LTV))
	b.WriteString("\n")

	if len(result.Offers) == 0 {
		b.WriteString("No eligible lenders.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("Rank | Lender                         | APR    | Term | Monthly     | Total Cost\n")
	b.WriteString("____ | ______________________________ | ______ | ____ | ___________ | ___________\n")
	for i, o := range result.Offers {
		_, _ = p.Fprintf(&b, "%-4d | %-30s | %5.2f%% | %4d | $%10.2f | $%10.2f\n",
			i+1, truncate(o.LenderName, 30), o.APR, o.TermMonths, o.MonthlyPayment, o.TotalCost)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// CsvFormat outputs one row per offer in rank order.
func CsvFormat(w io.Writer, result marketplace.Result) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"rank", "lender_id", "lender_name", "apr", "term_months", "monthly_payment", "total_cost", "principal", "dti", "ltv"})
	for i, o := range result.Offers {
		_ = cw.Write([]string{
			strconv.Itoa(i + 1),
			o.LenderID,
			o.LenderName,
			strconv.FormatFloat(o.APR, 'f', -1, 64),
			strconv.Itoa(o.TermMonths),
			fmt.Sprintf("%.2f", o.MonthlyPayment),
			fmt.Sprintf("%.2f", o.TotalCost),
			fmt.Sprintf("%.2f", result.Principal),
			csvRatio(result.DTI),
			csvRatio(result.LTV),
		})
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the result as indented JSON.
func JSONFormat(w io.Writer, result marketplace.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewResultView(result))
}

// PrettyLenders lists catalog products in catalog order.
func PrettyLenders(w io.Writer, products []catalog.Product) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("ID               | Name                           | Base    | Max DTI | Max LTV | Min Income | States | Terms\n")
	b.WriteString("________________ | ______________________________ | _______ | _______ | _______ | __________ | ______ | _____\n")
	for _, prod := range products {
		states := "all"
		if len(prod.States) > 0 {
			states = strings.Join(prod.States, ",")
		}
		terms := make([]string, 0, len(prod.Terms))
		for _, t := range prod.Terms {
			terms = append(terms, strconv.Itoa(t))
		}
		_, _ = p.Fprintf(&b, "%-16s | %-30s | %6.3f%% | %7.2f | %7.2f | $%9.0f | %s | %s\n",
			truncate(prod.ID, 16), truncate(prod.Name, 30), prod.BaseRate, prod.MaxDTI, prod.MaxLTV,
			prod.MinIncomeMonthly, states, strings.Join(terms, ","))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func ratio(v float64) string {
	if !mathutil.IsFinite(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func csvRatio(v float64) string {
	if !mathutil.IsFinite(v) {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
