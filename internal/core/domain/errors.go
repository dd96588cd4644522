package domain

import "go.trai.ch/zerr"

var (
	// ErrProcessTimeout is returned when an external process exceeds its time budget.
	ErrProcessTimeout = zerr.New("process timed out")

	// ErrProcessLaunch is returned when an external executable cannot be started.
	ErrProcessLaunch = zerr.New("failed to launch process")

	// ErrEmptyCommand is returned when a command has no executable name.
	ErrEmptyCommand = zerr.New("command has no executable")

	// ErrNoArtifacts is returned when no test artifact could be selected for a build.
	ErrNoArtifacts = zerr.New("no test artifacts selected for build")

	// ErrGaveUp is returned when the repair budget is exhausted and the build still fails.
	ErrGaveUp = zerr.New("build still failing after repair attempts")

	// ErrSourceDirMissing is returned when the source directory does not exist.
	ErrSourceDirMissing = zerr.New("source directory not found")

	// ErrSourceReadFailed is returned when a source file cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read source file")

	// ErrEmptyCorpus is returned when the source directory contains no source units.
	ErrEmptyCorpus = zerr.New("no source files found")

	// ErrDuplicateSource is returned when two source files share the same base name.
	ErrDuplicateSource = zerr.New("duplicate source identifier")

	// ErrArtifactNameCollision is returned when two source identifiers derive the same artifact filename.
	ErrArtifactNameCollision = zerr.New("source identifiers map to the same artifact filename")

	// ErrUnknownStage is returned when a stage name cannot be parsed.
	ErrUnknownStage = zerr.New("unknown artifact stage")

	// ErrArtifactWriteFailed is returned when an artifact cannot be written.
	ErrArtifactWriteFailed = zerr.New("failed to write test artifact")

	// ErrArtifactReadFailed is returned when an artifact cannot be read.
	ErrArtifactReadFailed = zerr.New("failed to read test artifact")

	// ErrManifestCorrupt is returned when the artifact manifest cannot be decoded.
	ErrManifestCorrupt = zerr.New("artifact manifest is corrupt")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a config value is out of range.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrInstructionsReadFailed is returned when an instruction template cannot be read.
	ErrInstructionsReadFailed = zerr.New("failed to read instruction template")

	// ErrInstructionsInvalid is returned when an instruction template has no instruction lines.
	ErrInstructionsInvalid = zerr.New("instruction template has no instructions")

	// ErrWorkspaceLocked is returned when another run holds the workspace lock.
	ErrWorkspaceLocked = zerr.New("workspace is locked by another run")

	// ErrAlreadyInitialized is returned when init would overwrite an existing file.
	ErrAlreadyInitialized = zerr.New("file already exists")
)
