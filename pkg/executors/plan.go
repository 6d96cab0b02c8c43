package executors

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/ivacruce/pkg/models"
	"github.com/yurifrl/ivacruce/pkg/plan"
	"github.com/yurifrl/ivacruce/pkg/reconcile"
	"github.com/yurifrl/ivacruce/pkg/service"
)

var (
	syncedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	extraStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
)

// Plan parses and reconciles every job and prints a preview without writing
// any workbook.
func (e *Executor) Plan(p *plan.Plan) ([]Summary, error) {
	summaries := make([]Summary, 0, len(p.Jobs))
	for _, job := range p.Jobs {
		s, err := e.PlanJob(job)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// PlanJob previews a single job.
func (e *Executor) PlanJob(job plan.Job) (Summary, error) {
	e.logger.Debug("planning job", "name", job.Name, "ledger", job.Ledger)

	ledger, result, err := e.load(job)
	if err != nil {
		return Summary{}, err
	}

	fmt.Fprintf(e.out, "\n%s\n", job.Name)
	if result == nil {
		for _, r := range ledger.Table.Rows {
			fmt.Fprintln(e.out, syncedStyle.Render("  "+rowLine(r)))
		}
	} else {
		for _, item := range result.Report.Items {
			if item.Status == reconcile.Matched {
				fmt.Fprintln(e.out, syncedStyle.Render("= "+rowLine(item.Row)))
				continue
			}
			fmt.Fprintln(e.out, missingStyle.Render("+ "+rowLine(item.Row)))
		}
		for _, row := range result.Report.MissingFromLedger {
			fmt.Fprintln(e.out, extraStyle.Render("- "+strings.Join(row, " | ")))
		}
	}

	s := summarize(job, ledger, result)
	fmt.Fprintf(e.out, "\nPlan: %s\n", s)
	return s, nil
}

func (e *Executor) load(job plan.Job) (*models.Ledger, *service.Result, error) {
	data, err := os.ReadFile(job.Ledger)
	if err != nil {
		return nil, nil, fmt.Errorf("job %s: failed to read ledger: %w", job.Name, err)
	}
	ledger, err := e.processor.ParseLedger(data, filepath.Base(job.Ledger))
	if err != nil {
		return nil, nil, fmt.Errorf("job %s: %w", job.Name, err)
	}
	if job.External == "" {
		return ledger, nil, nil
	}

	external, err := os.ReadFile(job.External)
	if err != nil {
		return nil, nil, fmt.Errorf("job %s: failed to read external source: %w", job.Name, err)
	}
	result, err := e.processor.Reconcile(ledger, external, filepath.Base(job.External))
	if err != nil {
		return nil, nil, fmt.Errorf("job %s: %w", job.Name, err)
	}
	return ledger, result, nil
}
