package core

import "errors"

// ErrNodeNotFound is returned by timeline stores for an unknown node id
var ErrNodeNotFound = errors.New("logic node not found")
