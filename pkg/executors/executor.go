package executors

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/service"
)

type Executor struct {
	logger    *log.Logger
	config    *config.Config
	processor *service.Processor
	out       io.Writer
}

// New returns an executor that previews to out, or stdout when out is nil.
func New(logger *log.Logger, cfg *config.Config, out io.Writer) *Executor {
	if out == nil {
		out = os.Stdout
	}
	return &Executor{
		logger:    logger,
		config:    cfg,
		processor: service.NewProcessor(cfg, logger),
		out:       out,
	}
}
