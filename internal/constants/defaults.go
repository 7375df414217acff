package constants

import "time"

// Generator defaults, applied when neither pubspec.yaml nor assetgen.yml set a value.
const (
	DefaultAssetRoot       = "assets"
	DefaultOutputDir       = "generated"
	DefaultOutputFilename  = "assets"
	DefaultClassName       = "Assets"
	DefaultNamedWithParent = true
	DefaultAutoDetection   = true
	DefaultDebounce        = 300 * time.Millisecond
)
