// Package validator is the structural gate every outbound compliance payload
// must pass. A violation anywhere blocks egress; an invalid payload is never
// partially delivered.
package validator

import (
	"fmt"

	"github.com/wahajaslm/tarco/internal/domain"
)

// Violation is one structural defect found in a payload.
type Violation struct {
	Rule    string `json:"rule"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.Rule, v.Field, v.Message)
}

// Rule inspects a full compliance response and reports its violations.
type Rule interface {
	Name() string
	Check(resp *domain.ComplianceResponse) []Violation
}
