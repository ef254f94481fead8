// Package reconcile decides what a finished build means: new content,
// unchanged content, or a contradiction between the recorded fingerprints
// and the manifest version that must be surfaced instead of guessed away.
//
// Decide is a pure function; applying the decision (writing the manifest,
// persisting objects) happens in exactly one place in the orchestrator.
package reconcile

import (
	"git.home.luguber.info/inful/databuild/internal/errors"
	"git.home.luguber.info/inful/databuild/internal/fingerprint"
	"git.home.luguber.info/inful/databuild/internal/semver"
)

// Action classifies the outcome of reconciliation.
type Action string

const (
	// WriteUnchanged: digests and version both match the prior record.
	WriteUnchanged Action = "write-unchanged"

	// WriteIncremented: data changed and the patch component was bumped
	// automatically.
	WriteIncremented Action = "write-incremented"

	// WriteAsIs: the decided version is taken verbatim (first build,
	// human pre-bump, or restoring a decremented version string).
	WriteAsIs Action = "write-as-is"
)

// Decision is the reconciliation outcome: the action taken and the version
// the build must persist in both the manifest and the new record.
type Decision struct {
	Action  Action
	Version semver.Version

	// Note carries a human-readable explanation for unusual but accepted
	// states, logged by the orchestrator.
	Note string
}

// Decide reconciles the prior record (nil on first build), the freshly
// computed record and the manifest's current version string.
//
// current is the version parsed from the package manifest; it may have
// been hand-edited since old was captured, and that drift is exactly what
// the decision table below resolves. strict controls the one contradictory
// combination (data changed AND version already bumped): strict fails the
// build with VersionInconsistent, lenient honors the human-set version.
func Decide(old, current *fingerprint.Record, version semver.Version, strict bool) (Decision, error) {
	if old == nil {
		// First build: nothing to compare against, persist as configured.
		return Decision{Action: WriteAsIs, Version: version, Note: "first build"}, nil
	}

	oldVersion, err := semver.Parse(old.Version)
	if err != nil {
		return Decision{}, errors.Wrap(err, errors.CategoryVersion, "recorded version is not parseable")
	}

	digestsEqual := fingerprint.Equal(old, current)

	switch version.Compare(oldVersion) {
	case 0:
		if digestsEqual {
			return Decision{Action: WriteUnchanged, Version: version}, nil
		}
		// Data changed, string untouched: bump patch from the baseline.
		return Decision{Action: WriteIncremented, Version: oldVersion.BumpPatch()}, nil

	case 1:
		if digestsEqual {
			// Human pre-bumped the version with no data change. Unusual
			// but unambiguous: honor it.
			return Decision{
				Action:  WriteAsIs,
				Version: version,
				Note:    "version bumped manually without data change",
			}, nil
		}
		if strict {
			return Decision{}, errors.VersionInconsistent(version.String(), oldVersion.String())
		}
		return Decision{
			Action:  WriteAsIs,
			Version: version,
			Note:    "data changed and version bumped manually; accepting the manual version",
		}, nil

	default: // current < recorded
		if digestsEqual {
			// Human decremented the string but data is unchanged: the
			// old, larger version is authoritative.
			return Decision{
				Action:  WriteAsIs,
				Version: oldVersion,
				Note:    "version decremented manually; restoring recorded version",
			}, nil
		}
		// Decremented AND changed: ignore the decrement, bump from the
		// old baseline.
		return Decision{
			Action:  WriteIncremented,
			Version: oldVersion.BumpPatch(),
			Note:    "version decremented manually; incrementing from recorded baseline",
		}, nil
	}
}
