package series

import (
	"encoding/json"

	"gonum.org/v1/gonum/mat"

	"github.com/macrolens/macrolens/internal/analytics"
	"github.com/macrolens/macrolens/internal/timeseries"
)

// CorrelationMatrix is a symmetric K×K matrix of pairwise coefficients
type CorrelationMatrix struct {
	Indicators []string
	sym        *mat.SymDense
}

// Matrix correlates every pair of ids. The diagonal is 1.
func Matrix(store *timeseries.Store, ids []string) (*CorrelationMatrix, error) {
	if err := store.Lookup(ids...); err != nil {
		return nil, err
	}

	k := len(ids)
	if k == 0 {
		return &CorrelationMatrix{Indicators: []string{}}, nil
	}

	sym := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		sym.SetSym(i, i, 1)
		for j := i + 1; j < k; j++ {
			r, err := analytics.Correlate(store, ids[i], ids[j])
			if err != nil {
				return nil, err
			}
			sym.SetSym(i, j, r)
		}
	}

	indicators := make([]string, k)
	copy(indicators, ids)
	return &CorrelationMatrix{Indicators: indicators, sym: sym}, nil
}

// Size returns K
func (m *CorrelationMatrix) Size() int {
	return len(m.Indicators)
}

// At returns the coefficient of indicators i and j
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.sym.At(i, j)
}

// Rows returns the matrix as nested slices
func (m *CorrelationMatrix) Rows() [][]float64 {
	k := m.Size()
	rows := make([][]float64, k)
	for i := range rows {
		rows[i] = make([]float64, k)
		for j := range rows[i] {
			rows[i][j] = m.sym.At(i, j)
		}
	}
	return rows
}

// Cell is one entry of the matrix, flattened for heatmap rendering
type Cell struct {
	Row    string  `json:"row"`
	Column string  `json:"column"`
	Value  float64 `json:"value"`
}

// Cells returns all K×K entries in row-major order
func (m *CorrelationMatrix) Cells() []Cell {
	k := m.Size()
	cells := make([]Cell, 0, k*k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			cells = append(cells, Cell{Row: m.Indicators[i], Column: m.Indicators[j], Value: m.sym.At(i, j)})
		}
	}
	return cells
}

// MarshalJSON encodes the indicators and the dense rows
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Indicators []string    `json:"indicators"`
		Values     [][]float64 `json:"values"`
		Cells      []Cell      `json:"cells"`
	}{
		Indicators: m.Indicators,
		Values:     m.Rows(),
		Cells:      m.Cells(),
	})
}
