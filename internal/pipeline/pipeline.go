// Package pipeline sequences provisioning and uninstall stages. Stages run
// strictly one at a time; a fatal outcome aborts the run immediately with
// everything already done left in place for inspection.
package pipeline

import (
	"fmt"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// Outcome classifies one stage's result.
type Outcome int

const (
	// OutcomeSuccess: the stage did its work.
	OutcomeSuccess Outcome = iota
	// OutcomeSkipped: the stage had nothing to do or the operator declined a
	// guarded action. A normal, successful outcome.
	OutcomeSkipped
	// OutcomeWarning: the stage finished but something needs operator
	// attention. The run continues.
	OutcomeWarning
	// OutcomeFatal: the stage failed; the run halts with prior work in place.
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeWarning:
		return "warning"
	case OutcomeFatal:
		return "fatal"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is one stage's recorded outcome.
type Result struct {
	Stage   string
	Outcome Outcome
	Detail  string // warning text or skip reason
	Err     error  // set iff Outcome is OutcomeFatal
}

// Stage is one unit of a pipeline run.
type Stage struct {
	Name string
	Run  func() Result
}

// Decider supplies the operator's resolved decisions for guarded operations.
// It is consulted lazily: a pipeline that never hits a conflict never asks.
type Decider interface {
	// InstallConflict resolves a pre-existing component install:
	// reuse, replace, or abort (keep and skip).
	InstallConflict(component string) config.Disposition
	// ReformatStore resolves a non-empty metadata store before formatting:
	// proceed (destroy and reformat) or abort (keep, skip the format).
	ReformatStore() config.Disposition
}

// Run executes stages in order, logging every result, and stops at the first
// fatal outcome. The returned error is the fatal stage's error, nil when the
// whole pipeline completed.
func Run(stages []Stage) ([]Result, error) {
	var results []Result

	for _, stage := range stages {
		util.Section("%s", stage.Name)

		res := stage.Run()
		res.Stage = stage.Name
		results = append(results, res)

		switch res.Outcome {
		case OutcomeSuccess:
			// Stages log their own progress; nothing to add.
		case OutcomeSkipped:
			if res.Detail != "" {
				util.Log("%s: skipped (%s)", stage.Name, res.Detail)
			} else {
				util.Log("%s: skipped", stage.Name)
			}
		case OutcomeWarning:
			util.Warn("%s: %s", stage.Name, res.Detail)
		case OutcomeFatal:
			util.Error("%s: %v", stage.Name, res.Err)
			return results, fmt.Errorf("stage %s failed: %w", stage.Name, res.Err)
		}
	}

	return results, nil
}

// helpers for stage bodies

func success() Result {
	return Result{Outcome: OutcomeSuccess}
}

func skipped(reason string) Result {
	return Result{Outcome: OutcomeSkipped, Detail: reason}
}

func warning(detail string) Result {
	return Result{Outcome: OutcomeWarning, Detail: detail}
}

func fatal(err error) Result {
	return Result{Outcome: OutcomeFatal, Err: err}
}
