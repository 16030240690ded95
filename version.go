package journey

import (
	_ "embed"
)

// Version is the release of the journey module, read from the VERSION file.
//
//go:embed VERSION
var Version string
