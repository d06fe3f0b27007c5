package topo

import "github.com/pkg/errors"

// ErrEmptyCollection is returned by aggregate queries on a collection
// without members.
var ErrEmptyCollection = errors.New("collection has no shapes")

var errEmptyShape = errors.New("shape has no extent")

// ErrNoKernel is returned when an operation needs a geometry kernel and
// the environment does not carry one.
var ErrNoKernel = errors.New("no geometry kernel configured")
