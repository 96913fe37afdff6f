package camera

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Table maps camera ids to their intrinsics. It is built once at load time
// and only read afterwards.
type Table map[ID]*Intrinsics

// Lookup returns the intrinsics for id.
func (t Table) Lookup(id ID) (*Intrinsics, error) {
	in, ok := t[id]
	if !ok {
		return nil, errors.Wrapf(ErrNoIntrinsics, "no camera with id %d", id)
	}
	return in, nil
}

// IDs returns the camera ids in ascending order.
func (t Table) IDs() []ID {
	ids := lo.Keys(t)
	slices.Sort(ids)
	return ids
}

// Scaled returns a new table with every entry scaled by factor.
func (t Table) Scaled(factor float64) Table {
	return lo.MapValues(t, func(in *Intrinsics, _ ID) *Intrinsics {
		return in.Scaled(factor)
	})
}

// CheckValid validates every entry.
func (t Table) CheckValid() error {
	for _, id := range t.IDs() {
		if err := t[id].CheckValid(); err != nil {
			return errors.Wrapf(err, "camera %d", id)
		}
	}
	return nil
}
