// Package constants contains file names and defaults shared across assetgen.
package constants

const (
	// AppName is used for the XDG data directory and in user-facing output.
	AppName = "assetgen"

	// LogFilename is the rotated log file inside the data directory.
	LogFilename = "assetgen.log"

	// HistoryFilename is the SQLite database recording past generations.
	HistoryFilename = "history.db"

	// DataDirEnv overrides the XDG data directory when set.
	DataDirEnv = "ASSETGEN_DATA_DIR"

	// LocksDir holds per-output lock files inside the data directory.
	LocksDir = "locks"

	// PubspecFilename marks the root of a Flutter project.
	PubspecFilename = "pubspec.yaml"

	// ConfigFilename is the default standalone configuration file.
	ConfigFilename = "assetgen.yml"

	// ConfigSection is the pubspec.yaml key holding generator settings.
	ConfigSection = "flutter_assets_generator"

	// LibDir is the Dart source directory output paths are resolved under.
	LibDir = "lib"

	// GeneratedExtension is appended to the output file name.
	GeneratedExtension = ".dart"
)
