package executors

import (
	"path/filepath"
	"strings"

	"github.com/yurifrl/ivacruce/pkg/plan"
	"github.com/yurifrl/ivacruce/pkg/service"
)

// Apply runs every job and writes its workbook. It stops at the first job
// that fails; workbooks already written are kept.
func (e *Executor) Apply(p *plan.Plan) ([]Summary, error) {
	e.logger.Debug("applying plan", "jobs", len(p.Jobs))

	summaries := make([]Summary, 0, len(p.Jobs))
	for _, job := range p.Jobs {
		ledger, result, err := e.load(job)
		if err != nil {
			return summaries, err
		}

		var out []byte
		suffix := "-movimientos.xlsx"
		if result == nil {
			out, err = e.processor.RenderMovements(ledger)
		} else {
			suffix = "-cruce.xlsx"
			out, err = e.processor.RenderConsolidated(result)
		}
		if err != nil {
			return summaries, err
		}

		path := outputFor(p, job, suffix)
		if err := service.WriteFileAtomic(path, out); err != nil {
			return summaries, err
		}

		s := summarize(job, ledger, result)
		s.Output = path
		e.logger.Info("wrote workbook", "job", job.Name, "output", path,
			"in_sync", s.InSync, "missing_in_external", s.MissingFromExternal, "missing_in_ledger", s.MissingFromLedger)
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func outputFor(p *plan.Plan, job plan.Job, suffix string) string {
	if job.Output != "" {
		return job.Output
	}
	base := strings.TrimSuffix(filepath.Base(job.Ledger), filepath.Ext(job.Ledger)) + suffix
	if p.OutputDir != "" {
		return filepath.Join(p.OutputDir, base)
	}
	return filepath.Join(filepath.Dir(job.Ledger), base)
}
