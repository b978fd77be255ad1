//go:build tools
// +build tools

// Package tools declares tool dependencies for this module.
//
// These imports are not used at runtime. They pin mockgen, invoked through
// go:generate, as an explicit module dependency.
package eyesup

import (
	_ "go.uber.org/mock/mockgen"
)
