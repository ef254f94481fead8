// Package render executes processing units. The orchestrator only depends
// on the Runner interface; how a unit actually runs is this package's
// business alone.
package render

import (
	"context"

	"git.home.luguber.info/inful/databuild/internal/config"
)

// ContextView is the read-only view of previously merged objects handed to
// a unit. It is the explicit cross-unit read channel: later units see what
// earlier units produced, and nothing else.
type ContextView map[string]any

// Runner executes one processing unit in workdir and returns the evaluation
// context: the named objects the unit produced. A failed unit returns an
// error; the returned map is only meaningful on success.
type Runner interface {
	Run(ctx context.Context, unit config.Unit, view ContextView, workdir string) (map[string]any, error)
}
