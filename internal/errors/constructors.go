package errors

// Constructors for the error conditions the build pipeline distinguishes.
// Keeping them here means callers never need to pick categories by hand.

// ConfigurationInvalid reports a configuration problem detected before any
// unit is executed (missing keys, no enabled units, empty allowlist).
func ConfigurationInvalid(message string) *BuildError {
	return New(CategoryConfig, message)
}

// UnitExecutionFailed reports a processing unit that exited unsuccessfully.
// The whole build aborts; nothing is persisted.
func UnitExecutionFailed(unitID string, cause error) *BuildError {
	return Wrap(cause, CategoryUnit, "unit execution failed").
		WithContext("unit", unitID)
}

// UnserializableObject reports an object that cannot be canonically
// serialized for fingerprinting.
func UnserializableObject(name string, cause error) *BuildError {
	return Wrap(cause, CategoryFingerprint, "object cannot be serialized").
		WithContext("object", name)
}

// VersionInconsistent reports the digest-changed-but-version-bumped
// contradiction: no correct version is derivable.
func VersionInconsistent(current, recorded string) *BuildError {
	return New(CategoryVersion,
		"data changed but the manifest version was already bumped past the recorded baseline").
		WithContext("current", current).
		WithContext("recorded", recorded)
}
