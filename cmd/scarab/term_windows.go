//go:build windows

package main

import "github.com/pkg/errors"

func setRawIO() (func(), error) {
	return nil, errors.New("raw IO not supported on windows")
}
