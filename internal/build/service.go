// Package build orchestrates one data-package build: it executes the
// enabled processing units in declared order, merges their allowlisted
// objects, fingerprints the result, reconciles it against the prior record
// and the manifest version, and persists everything on a non-fatal
// decision. All validation and decision-making happens before the first
// write, so a failed build leaves the filesystem exactly as it was.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/databuild/internal/config"
	"git.home.luguber.info/inful/databuild/internal/digeststore"
	"git.home.luguber.info/inful/databuild/internal/docs"
	"git.home.luguber.info/inful/databuild/internal/errors"
	"git.home.luguber.info/inful/databuild/internal/fingerprint"
	"git.home.luguber.info/inful/databuild/internal/gitinfo"
	"git.home.luguber.info/inful/databuild/internal/history"
	"git.home.luguber.info/inful/databuild/internal/logfields"
	"git.home.luguber.info/inful/databuild/internal/manifest"
	"git.home.luguber.info/inful/databuild/internal/reconcile"
	"git.home.luguber.info/inful/databuild/internal/render"
	"git.home.luguber.info/inful/databuild/internal/semver"
	"git.home.luguber.info/inful/databuild/internal/sink"
)

// Service runs builds for one configured package.
type Service struct {
	cfg     *config.Config
	runner  render.Runner
	objects sink.ObjectSink
	builds  history.Store
	logger  *slog.Logger
}

// NewService creates a build service with the default collaborators: the
// subprocess runner and the filesystem object sink.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		runner:  render.NewExecRunner(),
		objects: sink.NewFSSink(cfg.DataDir()),
		logger:  slog.Default(),
	}
}

// WithRunner substitutes the render collaborator.
func (s *Service) WithRunner(r render.Runner) *Service {
	s.runner = r
	return s
}

// WithObjectSink substitutes the object persistence sink.
func (s *Service) WithObjectSink(os sink.ObjectSink) *Service {
	s.objects = os
	return s
}

// WithHistory attaches a build-history store. History is supplemental:
// append failures are logged, never fatal.
func (s *Service) WithHistory(h history.Store) *Service {
	s.builds = h
	return s
}

// WithLogger sets a custom logger.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	s.logger = logger
	return s
}

// Result summarizes a completed (persisted) build.
type Result struct {
	BuildID  string
	Action   reconcile.Action
	Version  semver.Version
	Record   *fingerprint.Record
	Objects  int
	Missing  []string // allowlisted names no unit produced (lenient mode)
	Commit   string
	Duration time.Duration
}

// Run executes one build.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	buildID := uuid.NewString()
	strict := s.cfg.Build.IsStrict()

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	pkg, err := manifest.Load(s.cfg.ManifestPath())
	if err != nil {
		return nil, err
	}
	version, err := semver.Parse(pkg.VersionString())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryVersion, "manifest version is not parseable")
	}

	s.logger.Info("Starting data package build",
		logfields.BuildID(buildID),
		"package", pkg.PackageName(),
		logfields.Version(version.String()),
		"units", len(s.cfg.EnabledUnits()),
		"strict", strict)

	merged, err := s.runUnits(ctx, buildID)
	if err != nil {
		return nil, err
	}

	missing := s.missingAllowlisted(merged)
	if len(missing) > 0 {
		if strict {
			return nil, errors.Newf(errors.CategoryUnit,
				"allowlisted objects never produced by any unit: %v", missing)
		}
		s.logger.Warn("Allowlisted objects never produced by any unit", "objects", missing)
	}

	newRec, err := fingerprint.DigestAll(merged, version.String())
	if err != nil {
		return nil, err
	}

	oldRec, err := digeststore.Load(s.cfg.StateDir())
	if err != nil {
		return nil, err
	}

	decision, err := reconcile.Decide(oldRec, newRec, version, strict)
	if err != nil {
		return nil, err
	}
	if decision.Note != "" {
		s.logger.Warn("Version reconciliation note",
			logfields.Decision(string(decision.Action)),
			"note", decision.Note)
	}

	commit, _ := gitinfo.HeadCommit(s.cfg.RenderRoot())

	if err := s.persist(pkg, newRec, merged, decision); err != nil {
		return nil, err
	}

	result := &Result{
		BuildID:  buildID,
		Action:   decision.Action,
		Version:  decision.Version,
		Record:   newRec,
		Objects:  len(merged),
		Missing:  missing,
		Commit:   commit,
		Duration: time.Since(start),
	}
	s.recordHistory(ctx, result)

	s.logger.Info("Build completed",
		logfields.BuildID(buildID),
		logfields.Decision(string(decision.Action)),
		logfields.Version(decision.Version.String()),
		"objects", result.Objects,
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

// runUnits executes the enabled units strictly in declared order. Each unit
// gets a fresh evaluation context and a read-only view of what earlier
// units merged; only allowlisted names cross into the merged context.
func (s *Service) runUnits(ctx context.Context, buildID string) (map[string]any, error) {
	allow := make(map[string]bool, len(s.cfg.Render.Objects))
	for _, name := range s.cfg.Render.Objects {
		allow[name] = true
	}

	merged := make(map[string]any)
	for _, unit := range s.cfg.EnabledUnits() {
		s.logger.Info("Running processing unit", logfields.BuildID(buildID), logfields.Unit(unit.Script))

		view := make(render.ContextView, len(merged))
		for name, obj := range merged {
			view[name] = obj
		}

		produced, err := s.runner.Run(ctx, unit, view, s.cfg.RenderRoot())
		if err != nil {
			return nil, err
		}

		captured := 0
		for name, obj := range produced {
			if !allow[name] {
				continue
			}
			if _, exists := merged[name]; exists {
				// Last-write-wins by unit execution order.
				s.logger.Debug("Object redefined by later unit",
					logfields.Unit(unit.Script), logfields.Object(name))
			}
			merged[name] = obj
			captured++
		}
		s.logger.Debug("Unit finished",
			logfields.Unit(unit.Script), "produced", len(produced), "captured", captured)
	}
	return merged, nil
}

func (s *Service) missingAllowlisted(merged map[string]any) []string {
	var missing []string
	for _, name := range s.cfg.Render.Objects {
		if _, ok := merged[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// persist applies a non-fatal decision: objects, record, manifest version,
// documentation. Nothing before this point has touched the filesystem.
func (s *Service) persist(pkg *manifest.Manifest, rec *fingerprint.Record, merged map[string]any, decision reconcile.Decision) error {
	rec.Version = decision.Version.String()

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.objects.Store(name, merged[name]); err != nil {
			return fmt.Errorf("persist object %s: %w", name, err)
		}
	}

	if err := digeststore.Save(s.cfg.StateDir(), rec); err != nil {
		return err
	}

	if pkg.VersionString() != decision.Version.String() {
		pkg.SetVersionString(decision.Version.String())
		if err := pkg.Save(); err != nil {
			return err
		}
		s.logger.Info("Manifest version updated", logfields.Version(decision.Version.String()))
	}

	return docs.Sync(s.cfg.DocsDir(), rec)
}

func (s *Service) recordHistory(ctx context.Context, result *Result) {
	if s.builds == nil {
		return
	}
	err := s.builds.Append(ctx, history.Entry{
		BuildID:  result.BuildID,
		Decision: string(result.Action),
		Version:  result.Version.String(),
		Objects:  result.Objects,
		Commit:   result.Commit,
	})
	if err != nil {
		s.logger.Warn("Failed to record build history", logfields.Error(err))
	}
}
