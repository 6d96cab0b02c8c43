package executors

import (
	"fmt"

	"github.com/yurifrl/ivacruce/pkg/models"
	"github.com/yurifrl/ivacruce/pkg/plan"
	"github.com/yurifrl/ivacruce/pkg/service"
)

// Summary is the outcome of one plan job.
type Summary struct {
	Job                 plan.Job
	Rows                int
	InSync              int
	MissingFromLedger   int
	MissingFromExternal int
	Output              string
}

func summarize(job plan.Job, ledger *models.Ledger, result *service.Result) Summary {
	s := Summary{Job: job, Rows: len(ledger.Table.Rows)}
	if result != nil {
		s.InSync = result.Report.InSyncCount()
		s.MissingFromLedger = len(result.Report.MissingFromLedger)
		s.MissingFromExternal = len(result.Report.MissingFromExternal)
	}
	return s
}

// Reconciled reports whether the job had an external source to compare with.
func (s Summary) Reconciled() bool {
	return s.Job.External != ""
}

func (s Summary) String() string {
	if !s.Reconciled() {
		return fmt.Sprintf("%s: %d invoice(s), no external source", s.Job.Name, s.Rows)
	}
	return fmt.Sprintf("%s: %d invoice(s), %d in sync, %d missing in external, %d missing in ledger",
		s.Job.Name, s.Rows, s.InSync, s.MissingFromExternal, s.MissingFromLedger)
}

func rowLine(r models.Row) string {
	return fmt.Sprintf("%s | %-3s | %05d-%08d | %-30s | $ %s",
		r.Fecha, r.Comprobante, r.PV, r.Nro, r.RazonSocial, r.Total.StringFixed(2))
}
