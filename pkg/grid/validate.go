package grid

import (
	"github.com/dear23/gridlayout/pkg/errors"
)

// ValidateLayout checks that every item has an id, a position inside the
// positive quadrant and a size of at least 1x1, and that ids are unique.
// contextName is prefixed to the error message to say where the layout
// came from.
func ValidateLayout(l Layout, contextName string) error {
	seen := make(map[string]int, len(l))
	for i, it := range l {
		if it == nil {
			return errors.New(errors.ErrCodeInvalidLayout, "%s: item %d is nil", contextName, i)
		}
		if it.ID == "" {
			return errors.New(errors.ErrCodeInvalidLayout, "%s: item %d has no id", contextName, i)
		}
		if prev, ok := seen[it.ID]; ok {
			return errors.New(errors.ErrCodeDuplicateID, "%s: items %d and %d share id %q", contextName, prev, i, it.ID)
		}
		seen[it.ID] = i

		switch {
		case it.W < 1 || it.H < 1:
			return errors.New(errors.ErrCodeInvalidLayout, "%s: item %q has size %dx%d, want at least 1x1", contextName, it.ID, it.W, it.H)
		case it.X < 0 || it.Y < 0:
			return errors.New(errors.ErrCodeInvalidLayout, "%s: item %q is at (%d,%d), want non-negative", contextName, it.ID, it.X, it.Y)
		}
	}
	return nil
}
