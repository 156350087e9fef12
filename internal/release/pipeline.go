// Package release drives the ten-stage release preparation pipeline: bring
// the working copy up to date, merge dev into release, bump the descriptor
// version, commit and push. Stages run strictly in order, there is no retry,
// and the first failure aborts the invocation. Nothing is rolled back: git
// state left behind by completed stages (a merge in particular) stays on disk
// for manual inspection.
package release

import (
	"context"
	"fmt"
	"strings"

	"shipit.dev/shipit/internal/git"
	"shipit.dev/shipit/internal/project"
	"shipit.dev/shipit/internal/version"
)

// Notify receives a progress line after each major stage. The pipeline calls
// it synchronously; transports that need async delivery wrap it themselves.
type Notify func(text string)

// Options tune one pipeline invocation
type Options struct {
	// TargetVersion, when set, is used verbatim instead of incrementing the
	// current version
	TargetVersion string
	// Increment is the increment kind when no target version is given;
	// defaults to patch
	Increment string
}

// Result is the aggregate outcome of one pipeline invocation. It is created
// fresh per run and never persisted.
type Result struct {
	OK             bool
	FailedStage    string
	CurrentVersion string
	NewVersion     string
	UpdateDetail   string
	Changelog      string
	Message        string
}

// Stage names, in execution order
const (
	StageEnsureRepository = "EnsureRepository"
	StageCheckoutDev      = "CheckoutDev"
	StagePullDev          = "PullDev"
	StageCheckoutRelease  = "CheckoutRelease"
	StagePullRelease      = "PullRelease"
	StageMerge            = "MergeDevIntoRelease"
	StageDetermineVersion = "DetermineCurrentVersion"
	StageComputeVersion   = "ComputeNextVersion"
	StageApplyVersion     = "ApplyVersion"
	StageStageAndCommit   = "StageAndCommit"
	StagePush             = "Push"
	StageSummarize        = "Summarize"
)

// Pipeline orchestrates GitOperations and a version strategy for one project.
// It holds no state across invocations; the working copy on disk is the only
// shared resource, and callers must not run two pipelines against the same
// local path concurrently.
type Pipeline struct {
	project *project.Project
	service version.Service
	runner  *git.CommandRunner
	notify  Notify
}

// New creates a pipeline for the project, selecting the version strategy for
// its ecosystem
func New(p *project.Project, notify Notify) (*Pipeline, error) {
	svc, err := version.ServiceFor(p.Ecosystem)
	if err != nil {
		return nil, err
	}
	return NewWithService(p, svc, notify), nil
}

// NewWithService creates a pipeline with an explicit version strategy
func NewWithService(p *project.Project, svc version.Service, notify Notify) *Pipeline {
	if notify == nil {
		notify = func(string) {}
	}
	return &Pipeline{
		project: p,
		service: svc,
		runner:  git.NewCommandRunner(p.LocalPath),
		notify:  notify,
	}
}

// stage is one independently failable step
type stage struct {
	name string
	run  func(ctx context.Context) error
}

// Run executes the pipeline and always returns a result; panics from deeper
// layers are converted to a failed result at this boundary so no raw fault
// crosses to the caller.
func (pl *Pipeline) Run(ctx context.Context, opts Options) (result *Result) {
	result = &Result{}
	currentStage := ""

	defer func() {
		if rec := recover(); rec != nil {
			result.OK = false
			result.FailedStage = currentStage
			result.Message = fmt.Sprintf("release preparation failed at %s: unexpected fault: %v", currentStage, rec)
		}
	}()

	pl.notify(fmt.Sprintf("Preparing release for %s", pl.project.Name))

	for _, s := range pl.stages(result, opts) {
		currentStage = s.name
		if err := s.run(ctx); err != nil {
			result.OK = false
			result.FailedStage = s.name
			result.Message = fmt.Sprintf("release preparation failed at %s: %v", s.name, err)
			pl.notify(result.Message)
			return result
		}
	}

	result.OK = true
	result.Message = pl.successMessage(result)
	pl.notify(result.Message)
	return result
}

// stages builds the ordered stage list for one invocation. Stages communicate
// through the result under construction.
func (pl *Pipeline) stages(res *Result, opts Options) []stage {
	p := pl.project
	r := pl.runner

	return []stage{
		{StageEnsureRepository, func(ctx context.Context) error {
			if err := git.ValidateWorkingCopy(p.LocalPath); err != nil {
				return err
			}
			if err := r.Clone(ctx, p.GitURL); err != nil {
				return err
			}
			pl.notify("Repository ready")
			return nil
		}},
		{StageCheckoutDev, func(ctx context.Context) error {
			return r.Checkout(ctx, p.DevBranch)
		}},
		{StagePullDev, func(ctx context.Context) error {
			warning, err := r.Pull(ctx, p.DevBranch)
			if err != nil {
				return err
			}
			if warning != "" {
				pl.notify(fmt.Sprintf("Pulling %s reported: %s", p.DevBranch, warning))
			}
			pl.notify(fmt.Sprintf("Branch %s is up to date", p.DevBranch))
			return nil
		}},
		{StageCheckoutRelease, func(ctx context.Context) error {
			return r.Checkout(ctx, p.ReleaseBranch)
		}},
		{StagePullRelease, func(ctx context.Context) error {
			// Failure here is non-fatal: the release branch may not have an
			// upstream yet on a project's first release.
			if warning, err := r.Pull(ctx, p.ReleaseBranch); err != nil || warning != "" {
				pl.notify(fmt.Sprintf("Pulling %s skipped (continuing)", p.ReleaseBranch))
			}
			return nil
		}},
		{StageMerge, func(ctx context.Context) error {
			message := fmt.Sprintf("Merge %s into %s", p.DevBranch, p.ReleaseBranch)
			if err := r.Merge(ctx, p.DevBranch, message); err != nil {
				// No merge --abort: the working copy stays mid-merge so the
				// conflicts can be resolved by hand.
				return err
			}
			pl.notify(fmt.Sprintf("Merged %s into %s", p.DevBranch, p.ReleaseBranch))
			return nil
		}},
		{StageDetermineVersion, func(context.Context) error {
			// Runs on the release branch: a release's version reflects what
			// is actually released, not what dev currently says.
			current, err := pl.service.CurrentVersion(p)
			if err != nil {
				return err
			}
			res.CurrentVersion = current
			return nil
		}},
		{StageComputeVersion, func(context.Context) error {
			if opts.TargetVersion != "" {
				res.NewVersion = opts.TargetVersion
			} else {
				kind := opts.Increment
				if kind == "" {
					kind = version.IncrementPatch
				}
				res.NewVersion = version.Increment(res.CurrentVersion, kind)
			}
			pl.notify(fmt.Sprintf("Version %s -> %s", res.CurrentVersion, res.NewVersion))
			return nil
		}},
		{StageApplyVersion, func(context.Context) error {
			update := pl.service.UpdateVersion(p, res.NewVersion)
			if !update.OK {
				return fmt.Errorf("%s", update.Message)
			}
			res.UpdateDetail = update.Message
			pl.notify(update.Message)
			return nil
		}},
		{StageStageAndCommit, func(ctx context.Context) error {
			if err := r.StageAll(ctx); err != nil {
				return err
			}
			return r.Commit(ctx, fmt.Sprintf("#Release %s", res.NewVersion))
		}},
		{StagePush, func(ctx context.Context) error {
			if err := r.Push(ctx, p.ReleaseBranch); err != nil {
				return err
			}
			pl.notify(fmt.Sprintf("Pushed %s", p.ReleaseBranch))
			return nil
		}},
		{StageSummarize, func(ctx context.Context) error {
			// Best effort: a changelog is nice to have, never a reason to
			// fail a release that already pushed.
			if log, err := r.Log(ctx, 5); err == nil {
				res.Changelog = log
			}
			return nil
		}},
	}
}

// successMessage formats the aggregate report for a completed run
func (pl *Pipeline) successMessage(res *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Release prepared for %s\n", pl.project.Name)
	fmt.Fprintf(&b, "Version: %s -> %s\n", res.CurrentVersion, res.NewVersion)
	fmt.Fprintf(&b, "Branch %s pushed with commit \"#Release %s\"", pl.project.ReleaseBranch, res.NewVersion)
	if res.UpdateDetail != "" {
		fmt.Fprintf(&b, "\n%s", res.UpdateDetail)
	}
	if res.Changelog != "" {
		fmt.Fprintf(&b, "\n\nRecent commits:\n%s", res.Changelog)
	}
	return b.String()
}
