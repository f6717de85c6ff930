package flif

import "github.com/pkg/errors"

func errUnsupported(what string) error {
	return errors.Errorf("flif.Decode: unsupported feature: %s", what)
}

func errCorrupt(what string) error {
	return errors.Errorf("flif.Decode: corrupt bitstream: %s", what)
}
