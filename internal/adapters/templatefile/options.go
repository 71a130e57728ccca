package templatefile

import "os"

// Option applies a configuration option to the Dir.
type Option func(*Dir)

// WithFileMode sets the permission bits of written template files.
func WithFileMode(mode os.FileMode) Option {
	return func(d *Dir) {
		if mode != 0 {
			d.fileMode = mode
		}
	}
}

// WithCreateDir makes Save create the directory when it is missing.
// Enabled by default.
func WithCreateDir(create bool) Option {
	return func(d *Dir) {
		d.createDir = create
	}
}
