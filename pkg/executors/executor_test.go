package executors

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/plan"
)

func absSample(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "data", "sample", name))
	require.NoError(t, err)
	return path
}

func newTestExecutor(out io.Writer) *Executor {
	return New(log.New(io.Discard), config.New(""), out)
}

func samplePlan(t *testing.T) *plan.Plan {
	return &plan.Plan{
		OutputDir: t.TempDir(),
		Jobs: []plan.Job{
			{Name: "cruce", Ledger: absSample(t, "ventas_2025_03.txt"), External: absSample(t, "arca_2025_03.zip")},
			{Name: "solo", Ledger: absSample(t, "ventas_2025_03.txt")},
		},
	}
}

func TestPlanPreview(t *testing.T) {
	var buf bytes.Buffer
	p := samplePlan(t)

	summaries, err := newTestExecutor(&buf).Plan(p)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, 5, summaries[0].Rows)
	assert.Equal(t, 4, summaries[0].InSync)
	assert.Equal(t, 1, summaries[0].MissingFromExternal)
	assert.Equal(t, 1, summaries[0].MissingFromLedger)
	assert.False(t, summaries[1].Reconciled())

	out := buf.String()
	assert.Contains(t, out, "00002-00000103")
	assert.Contains(t, out, "CLIENTE NUEVO SRL")
	assert.Contains(t, out, "Plan: cruce: 5 invoice(s), 4 in sync")
	assert.Contains(t, out, "no external source")

	entries, err := os.ReadDir(p.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApplyWritesWorkbooks(t *testing.T) {
	p := samplePlan(t)
	p.Jobs[0].Output = filepath.Join(p.OutputDir, "marzo.xlsx")

	summaries, err := newTestExecutor(io.Discard).Apply(p)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, filepath.Join(p.OutputDir, "marzo.xlsx"), summaries[0].Output)
	assert.Equal(t, filepath.Join(p.OutputDir, "ventas_2025_03-movimientos.xlsx"), summaries[1].Output)
	for _, s := range summaries {
		_, err := os.Stat(s.Output)
		assert.NoError(t, err)
	}
}

func TestApplyStopsOnFailure(t *testing.T) {
	p := samplePlan(t)
	p.Jobs[0].Ledger = filepath.Join(t.TempDir(), "missing.txt")

	summaries, err := newTestExecutor(io.Discard).Apply(p)
	require.Error(t, err)
	assert.Empty(t, summaries)
}

func TestOutputFor(t *testing.T) {
	job := plan.Job{Ledger: "/in/ventas.txt"}
	assert.Equal(t, "/in/ventas-cruce.xlsx", outputFor(&plan.Plan{}, job, "-cruce.xlsx"))
	assert.Equal(t, "/out/ventas-cruce.xlsx", outputFor(&plan.Plan{OutputDir: "/out"}, job, "-cruce.xlsx"))
	job.Output = "/x.xlsx"
	assert.Equal(t, "/x.xlsx", outputFor(&plan.Plan{OutputDir: "/out"}, job, "-cruce.xlsx"))
}
