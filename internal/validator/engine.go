package validator

import (
	"fmt"
	"strings"

	"github.com/wahajaslm/tarco/internal/domain"
)

// Gate runs every registered rule against a payload and blocks it on the
// first pass that yields violations.
type Gate struct {
	rules []Rule
}

// NewGate creates a gate with the given rules. Most callers want
// NewDefaultGate.
func NewGate(rules ...Rule) *Gate {
	return &Gate{rules: rules}
}

// Register adds a rule to the gate.
func (g *Gate) Register(rule Rule) {
	g.rules = append(g.rules, rule)
}

// Validate runs all rules. Any violation returns an error wrapping
// domain.ErrSchemaViolation with every finding listed.
func (g *Gate) Validate(resp *domain.ComplianceResponse) error {
	violations := g.Check(resp)
	if len(violations) == 0 {
		return nil
	}

	messages := make([]string, len(violations))
	for i, v := range violations {
		messages[i] = v.String()
	}
	return fmt.Errorf("%w: %s", domain.ErrSchemaViolation, strings.Join(messages, "; "))
}

// Check runs all rules and returns the accumulated violations without
// converting them into an error.
func (g *Gate) Check(resp *domain.ComplianceResponse) []Violation {
	var violations []Violation
	for _, rule := range g.rules {
		violations = append(violations, rule.Check(resp)...)
	}
	return violations
}
