// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor provides the health-check framework behind the
// "dvc doctor" command: check results with pass/fail/warn/skip
// status, optional fix actions attached to failures, a fix executor
// that understands permission errors and root-only repairs, and
// checklist/JSON output formatting.
//
// The checks themselves live with the command in cmd/dvc/commands;
// this package is mechanism only.
package doctor
