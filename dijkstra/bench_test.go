package dijkstra_test

import (
	"math/rand/v2"
	"testing"

	"github.com/pedronavarrovera/amo/debtmatrix"
	"github.com/pedronavarrovera/amo/dijkstra"
)

// BenchmarkFrom_Random100 measures one all-targets pass on the reference
// workload shape: 100 parties, weights in [0,100).
func BenchmarkFrom_Random100(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	rows := make([][]int64, 100)
	for i := range rows {
		rows[i] = make([]int64, 100)
		for j := range rows[i] {
			rows[i][j] = rng.Int64N(100)
		}
	}
	m := debtmatrix.MustNew(rows)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = dijkstra.From(m, 0)
	}
}
