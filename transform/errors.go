package transform

import "github.com/pkg/errors"

func errTransformRange(index int) error {
	return errors.Errorf("transform.ByIndex: name index %d out of range [0,%d]", index, MaxTransform)
}

func errTransformUnregistered(index int) error {
	return errors.Errorf("transform.ByIndex: name index %d is not a registered transform", index)
}
