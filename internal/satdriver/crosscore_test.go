package satdriver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapd-solver/internal/cbsta"
	"github.com/elektrokombinacija/mapd-solver/internal/core"
)

// TestCrossCoreAgreement checks that the two cores report the same optimal
// makespan on instances whose optimum needs no mid-route container
// handover (the one plan shape CBS-TA's task model cannot express).
func TestCrossCoreAgreement(t *testing.T) {
	cases := map[string]*core.Problem{
		"single agent": core.NewProblem(core.NewGrid(3, 3, nil),
			[]core.VertexID{2}, []core.VertexID{8}, []core.VertexID{0}),
		"disjoint tasks": core.NewProblem(core.NewGrid(4, 4, nil),
			[]core.VertexID{1, 13}, []core.VertexID{3, 15}, []core.VertexID{0, 12}),
	}

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := core.DefaultConfig()
			satOutcome, err := New(p, cfg, nil).Solve(context.Background())
			require.NoError(t, err)
			require.Equal(t, core.Solved, satOutcome.Kind)

			cbsOutcome, err := cbsta.New(p, cfg, nil).Solve(context.Background())
			require.NoError(t, err)
			require.Equal(t, core.Solved, cbsOutcome.Kind)

			assert.Equal(t, satOutcome.Solution.Makespan, cbsOutcome.Solution.Makespan)
		})
	}
}
