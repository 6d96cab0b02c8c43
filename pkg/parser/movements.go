package parser

import (
	"regexp"
	"strings"

	"github.com/yurifrl/ivacruce/pkg/models"
)

var tailSplitter = regexp.MustCompile(`\s{3,}`)

type state int

const (
	awaitingEntry state = iota
	accumulating
)

func (s state) String() string {
	if s == accumulating {
		return "accumulating"
	}
	return "awaiting_entry"
}

// machine groups physical lines into movements. It holds at most one open
// movement; emitting it is the only way back to awaitingEntry.
type machine struct {
	p       *Parser
	section models.Section
	state   state
	open    *models.Movement
	out     []*models.Movement
}

// ParseMovements runs the line state machine over the cleaned body.
func (p *Parser) ParseMovements(lines []string, section models.Section) ([]*models.Movement, error) {
	m := &machine{p: p, section: section}
	for i, line := range lines {
		if err := m.step(i+1, line); err != nil {
			return nil, err
		}
	}
	m.flush()
	p.logger.Debug("parsed movements", "lines", len(lines), "movements", len(m.out), "section", section)
	return m.out, nil
}

func (m *machine) step(n int, line string) error {
	if m.state == accumulating && m.p.layout.Number(line) == m.open.Nro {
		return m.continueMovement(n, line)
	}
	if strings.HasPrefix(line, "  ") {
		if m.state == awaitingEntry {
			m.p.logger.Warn("continuation line without an open movement, dropping", "line", n)
			return nil
		}
		return m.continueMovement(n, line)
	}
	return m.startMovement(n, line)
}

func (m *machine) startMovement(n int, line string) error {
	m.flush()
	m.open = models.NewMovement(m.p.layout.Extract(line), n)
	m.state = accumulating

	tokens := splitTail(m.p.layout.Tail(line))
	if len(tokens) < 2 {
		m.p.logger.Debug("tail without amounts, ignoring", "line", n, "tail", m.p.layout.Tail(line))
		return nil
	}
	amounts := tokens[1:]
	if len(tokens) == 3 {
		amounts = splitCollapsedAmounts(amounts)
	}
	return m.route(n, tokens[0], amounts)
}

func (m *machine) continueMovement(n int, line string) error {
	tokens := splitTail(m.p.layout.Tail(line))
	if len(tokens) < 2 {
		m.p.logger.Debug("tail without amounts, ignoring", "line", n, "tail", m.p.layout.Tail(line))
		return nil
	}
	return m.route(n, tokens[0], tokens[1:])
}

func (m *machine) route(n int, code string, amounts []string) error {
	if strings.TrimSpace(code) == "" {
		m.p.logger.Warn("amounts without rate code, ignoring", "line", n, "amounts", amounts)
		return nil
	}
	return m.p.accumulate(m.open, code, amounts, m.section, n)
}

// flush emits the open movement, if any.
func (m *machine) flush() {
	if m.state == accumulating && !m.open.IsEmpty() {
		m.out = append(m.out, m.open)
	}
	m.open = nil
	m.state = awaitingEntry
}

func splitTail(tail string) []string {
	return tailSplitter.Split(tail, -1)
}

// splitCollapsedAmounts handles primary lines whose net and tax amounts are
// separated by a single space, which leaves three tail tokens where the
// first amount token holds both values. When that token does not split into
// at least two pieces the tokens are returned unchanged.
func splitCollapsedAmounts(amounts []string) []string {
	pieces := strings.Fields(amounts[0])
	if len(pieces) < 2 {
		return amounts
	}
	return pieces
}
