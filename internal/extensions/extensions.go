// Package extensions bundles the extensions that ship with termext.
package extensions

import "github.com/atomicstack/termext/internal/ext"

// Builtin returns the bundled extensions in catalog order.
func Builtin() []ext.Extension {
	return []ext.Extension{
		fruits(),
		groceries(),
		todos(),
		packages(),
		clock(),
		settings(),
		system(),
	}
}

// Register adds every bundled extension to r.
func Register(r *ext.Registry) error {
	for _, e := range Builtin() {
		if err := r.Register(e); err != nil {
			return err
		}
	}
	return nil
}
