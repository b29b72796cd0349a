package analyzer

// Character budgets for the packed context payload.
const (
	// MaxContextChars bounds the whole payload handed to the model.
	MaxContextChars = 48000
	// MaxFileChars bounds a single embedded file.
	MaxFileChars = 8000
	// MinTruncationRemainder is the smallest budget slice still worth
	// filling with a partial file before the packer stops.
	MinTruncationRemainder = 500
)

// Caps for the rendered directory tree.
const (
	MaxTreeChars    = 3000
	MaxTreeChildren = 30
	MaxTreeDepth    = 4
)

// MaxDepsPerManifest caps each dependency list pulled from one manifest.
const MaxDepsPerManifest = 50
