// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"fmt"
	"strings"
)

// DuplicateOutputError reports an output path claimed by more than
// one stage. The graph is unusable until the duplication is fixed;
// every access re-reports the error.
type DuplicateOutputError struct {
	// Path is the contested output path.
	Path string

	// Stages are the identities of the claiming stages.
	Stages []string
}

func (e *DuplicateOutputError) Error() string {
	return fmt.Sprintf("output %s is claimed by multiple stages: %s",
		e.Path, strings.Join(e.Stages, ", "))
}

// CycleError reports a dependency cycle between stages.
type CycleError struct {
	// Stages are the identities of the stages on the cycle, in
	// dependency order.
	Stages []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("stage dependencies form a cycle: %s",
		strings.Join(e.Stages, " -> "))
}
