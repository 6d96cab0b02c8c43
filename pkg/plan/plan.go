package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Plan struct {
	OutputDir string `yaml:"output_dir"`
	Jobs      []Job  `yaml:"jobs"`
}

// Job is one ledger, optionally reconciled against an external export.
type Job struct {
	Name     string `yaml:"name"`
	Ledger   string `yaml:"ledger"`
	External string `yaml:"external"`
	Output   string `yaml:"output"`
}

// Load reads a plan file. Relative paths are resolved against the plan's
// directory.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Jobs) == 0 {
		return nil, errors.New("plan has no jobs")
	}

	base := filepath.Dir(path)
	p.OutputDir = resolve(base, p.OutputDir)
	for i := range p.Jobs {
		job := &p.Jobs[i]
		if job.Ledger == "" {
			return nil, fmt.Errorf("job %d: ledger is required", i+1)
		}
		if job.Name == "" {
			job.Name = filepath.Base(job.Ledger)
		}
		job.Ledger = resolve(base, job.Ledger)
		job.External = resolve(base, job.External)
		if job.Output != "" && !filepath.IsAbs(job.Output) {
			job.Output = filepath.Join(p.OutputDir, job.Output)
		}
	}
	return &p, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func (p *Plan) Print() {
	fmt.Printf("Output dir: %s\n", p.OutputDir)
	for i, job := range p.Jobs {
		fmt.Printf("[%d] name=%s ledger=%s external=%s\n", i+1, job.Name, job.Ledger, job.External)
	}
}
