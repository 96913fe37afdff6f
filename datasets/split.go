package datasets

import "github.com/pkg/errors"

// SplitAssignment partitions frame positions 0..N-1 into train and test.
// Both lists are in capture order, disjoint, and together cover every frame.
type SplitAssignment struct {
	Train []int
	Test  []int
}

// NewSplitAssignment assigns frame i to test when i%testInterval == 0 and to
// train otherwise. It depends only on its arguments, so appending frames
// never moves an existing one.
func NewSplitAssignment(frames, testInterval int) (SplitAssignment, error) {
	if testInterval <= 0 {
		return SplitAssignment{}, errors.Wrapf(ErrInvalidConfiguration,
			"test split interval must be positive, got %d", testInterval)
	}
	if frames < 0 {
		return SplitAssignment{}, errors.Wrapf(ErrInvalidConfiguration, "negative frame count %d", frames)
	}
	a := SplitAssignment{
		Train: make([]int, 0, frames-frames/testInterval),
		Test:  make([]int, 0, frames/testInterval+1),
	}
	for i := 0; i < frames; i++ {
		if i%testInterval == 0 {
			a.Test = append(a.Test, i)
		} else {
			a.Train = append(a.Train, i)
		}
	}
	return a, nil
}

// Indices returns the positions belonging to split.
func (a SplitAssignment) Indices(split Split) ([]int, error) {
	switch split {
	case SplitTrain:
		return a.Train, nil
	case SplitTest:
		return a.Test, nil
	default:
		return nil, errors.Wrapf(ErrInvalidConfiguration, "unknown split %q", split)
	}
}

// Assign returns the ordered subsequence of frames that belongs to split.
// An interval of 1 yields an empty train split; that is not an error.
func Assign[T any](frames []T, split Split, testInterval int) ([]T, error) {
	a, err := NewSplitAssignment(len(frames), testInterval)
	if err != nil {
		return nil, err
	}
	idx, err := a.Indices(split)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = frames[j]
	}
	return out, nil
}
