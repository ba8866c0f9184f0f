package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwvelando/lender-marketplace/pkg/constants"
)

const sampleYAML = `
lenders:
  - id: sunrise
    name: Sunrise Auto Credit
    baseRate: 5.0
    riskAlpha: 10
    marginBps: 50
    maxDTI: 0.5
    maxLTV: 1.1
    minIncomeMonthly: 2000
    states: [ca, " tx"]
    terms: [36, 48, 60, 72]
    fees:
      origination: 300
  - id: prairie
    name: Prairie Lending
    baseRate: 6.2
    riskAlpha: 20
    marginBps: 25
    terms: [48, 60]
    fees:
      origination: 0
`

func TestParseMappingDocument(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	products := c.Products()
	assert.Equal(t, "sunrise", products[0].ID)
	assert.Equal(t, "prairie", products[1].ID)
	assert.Equal(t, []string{"CA", "TX"}, products[0].States)
	assert.Equal(t, []int{36, 48, 60, 72}, products[0].Terms)
	assert.Equal(t, 300.0, products[0].Fees.Origination)
}

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	p, ok := c.Lookup("prairie")
	require.True(t, ok)
	assert.Equal(t, constants.DefaultMaxDTI, p.MaxDTI)
	assert.Equal(t, constants.DefaultMaxLTV, p.MaxLTV)
	assert.Equal(t, constants.DefaultMinIncomeMonthly, p.MinIncomeMonthly)
	assert.Empty(t, p.States)
}

func TestParseJSONList(t *testing.T) {
	data := `[{"id":"a","name":"Alpha","baseRate":4.5,"riskAlpha":5,"marginBps":10,"terms":[60],"fees":{"origination":99}}]`

	c, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	p, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 4.5, p.BaseRate)
	assert.Equal(t, 99.0, p.Fees.Origination)
}

func TestParseRejectsMalformedCatalogs(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Empty document", "   "},
		{"Scalar document", "just a string"},
		{"Unknown field", "- {id: a, name: A, terms: [60], maxDti: 0.4}"},
		{"Missing id", "- {name: A, terms: [60]}"},
		{"Missing name", "- {id: a, terms: [60]}"},
		{"Missing terms", "- {id: a, name: A}"},
		{"Non-positive term", "- {id: a, name: A, terms: [0, 60]}"},
		{"Duplicate id", "- {id: a, name: A, terms: [60]}\n- {id: a, name: B, terms: [60]}"},
		{"Bad state code", "- {id: a, name: A, terms: [60], states: [CAL]}"},
		{"Negative fee", "- {id: a, name: A, terms: [60], fees: {origination: -1}}"},
		{"Negative margin", "- {id: a, name: A, terms: [60], marginBps: -5}"},
		{"Wrong type", "- {id: a, name: A, terms: sixty}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.data))
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	err := Validate([]Product{
		{ID: "", Name: "", Terms: nil},
		{ID: "b", Name: "B", Terms: []int{-12}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "4 problem(s)")
	assert.Contains(t, err.Error(), "id is required")
	assert.Contains(t, err.Error(), "term -12 must be positive")
}

func TestNewCopiesInput(t *testing.T) {
	input := []Product{{ID: "a", Name: "A", Terms: []int{36, 60}, States: []string{"ca"}}}

	c, err := New(input)
	require.NoError(t, err)

	input[0].Terms[0] = 999
	input[0].States[0] = "zz"

	p, _ := c.Lookup("a")
	assert.Equal(t, []int{36, 60}, p.Terms)
	assert.Equal(t, []string{"CA"}, p.States)
}

func TestServesState(t *testing.T) {
	anywhere := Product{}
	west := Product{States: []string{"CA", "TX"}}

	assert.True(t, anywhere.ServesState("NY"))
	assert.True(t, west.ServesState("CA"))
	assert.False(t, west.ServesState("NY"))
	assert.False(t, west.ServesState(""))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lenders.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, path, c.Source())
	assert.False(t, c.LoadedAt().IsZero())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStoreSnapshotAndReplace(t *testing.T) {
	empty := NewStore(nil)
	assert.Nil(t, empty.Snapshot())
	assert.Equal(t, 0, empty.Snapshot().Len())

	first, err := New([]Product{{ID: "a", Name: "A", Terms: []int{60}}})
	require.NoError(t, err)
	second, err := New([]Product{{ID: "b", Name: "B", Terms: []int{60}}})
	require.NoError(t, err)

	s := NewStore(first)
	assert.Same(t, first, s.Snapshot())

	prev := s.Replace(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, s.Snapshot())
}

func TestStoreConcurrentReaders(t *testing.T) {
	first, err := New([]Product{{ID: "a", Name: "A", Terms: []int{60}}})
	require.NoError(t, err)
	second, err := New([]Product{
		{ID: "b", Name: "B", Terms: []int{60}},
		{ID: "c", Name: "C", Terms: []int{60}},
	})
	require.NoError(t, err)

	s := NewStore(first)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				snap := s.Snapshot()
				n := snap.Len()
				if n != 1 && n != 2 {
					t.Errorf("snapshot has %d lenders", n)
					return
				}
				// A snapshot never changes underneath its reader.
				if snap.Len() != n {
					t.Errorf("snapshot changed from %d to %d lenders", n, snap.Len())
					return
				}
			}
		}()
	}
	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			s.Replace(second)
		} else {
			s.Replace(first)
		}
	}
	wg.Wait()
}

func TestLookup(t *testing.T) {
	c, err := New([]Product{{ID: "a", Name: "Alpha", Terms: []int{60}, States: []string{"ca"}}})
	require.NoError(t, err)

	p, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, []string{"CA"}, p.States)

	p.States[0] = "NY"
	again, _ := c.Lookup("a")
	assert.Equal(t, "CA", again.States[0], "Lookup returns a copy")

	_, ok = c.Lookup("b")
	assert.False(t, ok)

	var empty *Catalog
	_, ok = empty.Lookup("a")
	assert.False(t, ok)
}
