// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/HelloBroBro/dvc/lib/repofs"
	"github.com/HelloBroBro/dvc/lib/stagefile"
)

func genTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func buildAt(t *testing.T, files map[string]string) (*Index, error) {
	t.Helper()
	dir := t.TempDir()
	genTree(t, dir, files)
	return Build(repofs.NewLocal(), repofs.Normalize(dir))
}

const fooDVC = "outs:\n- md5: acbd18db4cc2f85cedef654fccc4a4d8\n  path: foo\n"

func TestBuildDiscoversTrackedAndPipelineStages(t *testing.T) {
	t.Parallel()

	idx, err := buildAt(t, map[string]string{
		"foo.dvc": fooDVC,
		"dvc.yaml": "stages:\n  train:\n    cmd: ./train\n    deps:\n    - foo\n    outs:\n    - model\n",
		".dvc/config":    "{}",
		".dvc/cache/junk.dvc": "not a stage file",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(idx.Stages()) != 2 {
		t.Fatalf("got %d stages, want 2 (internal dir must be excluded)", len(idx.Stages()))
	}
}

func TestBuildRespectsIgnoreFile(t *testing.T) {
	t.Parallel()

	idx, err := buildAt(t, map[string]string{
		"foo.dvc":           fooDVC,
		"scratch/junk.dvc":  "outs:\n- md5: abc\n  path: junk\n",
		".dvcignore":        "scratch/\n",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(idx.Stages()) != 1 {
		t.Fatalf("got %d stages, want 1 (.dvcignore must exclude scratch/)", len(idx.Stages()))
	}
}

func TestDuplicateOutputFromIdenticalCopies(t *testing.T) {
	t.Parallel()

	// A stage definition copied verbatim still claims the same
	// output path and must be rejected.
	_, err := buildAt(t, map[string]string{
		"foo.dvc":   fooDVC,
		"foo-2.dvc": fooDVC,
	})
	var duplicate *DuplicateOutputError
	if !errors.As(err, &duplicate) {
		t.Fatalf("Build error = %v, want DuplicateOutputError", err)
	}
	if len(duplicate.Stages) != 2 {
		t.Errorf("error names %v, want both conflicting stages", duplicate.Stages)
	}
}

func TestDuplicateOutputByContainment(t *testing.T) {
	t.Parallel()

	_, err := buildAt(t, map[string]string{
		"dir.dvc":  "outs:\n- md5: 70922d6bf66eb073053a82f77d58c536.dir\n  path: dir\n",
		"file.dvc": "outs:\n- md5: 8c7dd922ad47494fc02c388e12c00eac\n  path: dir/subdir/file\n",
	})
	var duplicate *DuplicateOutputError
	if !errors.As(err, &duplicate) {
		t.Fatalf("Build error = %v, want DuplicateOutputError for nested outputs", err)
	}
}

func TestCycleDetection(t *testing.T) {
	t.Parallel()

	_, err := buildAt(t, map[string]string{
		"dvc.yaml": "stages:\n" +
			"  a:\n    cmd: ./a\n    deps:\n    - out-b\n    outs:\n    - out-a\n" +
			"  b:\n    cmd: ./b\n    deps:\n    - out-a\n    outs:\n    - out-b\n",
	})
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("Build error = %v, want CycleError", err)
	}
	if len(cycle.Stages) != 2 {
		t.Errorf("cycle names %v, want both participating stages", cycle.Stages)
	}
}

func TestTopoSort(t *testing.T) {
	t.Parallel()

	idx, err := buildAt(t, map[string]string{
		"dvc.yaml": "stages:\n" +
			"  train:\n    cmd: ./train\n    deps:\n    - prepared\n    outs:\n    - model\n" +
			"  prepare:\n    cmd: ./prepare\n    deps:\n    - raw\n    outs:\n    - prepared\n",
		"raw.dvc": "outs:\n- md5: acbd18db4cc2f85cedef654fccc4a4d8\n  path: raw\n",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	order := idx.TopoSort()
	position := make(map[string]int, len(order))
	for i, stage := range order {
		key := stage.Name
		if key == "" {
			key = "raw"
		}
		position[key] = i
	}
	if position["raw"] > position["prepare"] {
		t.Errorf("raw tracked stage ordered after prepare: %v", position)
	}
	if position["prepare"] > position["train"] {
		t.Errorf("prepare ordered after train: %v", position)
	}
}

func TestFindOutsByPath(t *testing.T) {
	t.Parallel()

	dirStage := &stagefile.Stage{
		Path: "/repo/dir.dvc",
		Outs: []stagefile.Out{{Path: "/repo/dir"}},
	}
	fooStage := &stagefile.Stage{
		Path: "/repo/foo.dvc",
		Outs: []stagefile.Out{{Path: "/repo/foo"}},
	}
	idx, err := New([]*stagefile.Stage{dirStage, fooStage})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name       string
		path       string
		strict     bool
		wantStages []*stagefile.Stage
	}{
		{name: "inside directory output", path: "/repo/dir/subdir/file", wantStages: []*stagefile.Stage{dirStage}},
		{name: "directory output subdir", path: "/repo/dir/subdir", wantStages: []*stagefile.Stage{dirStage}},
		{name: "exact directory output", path: "/repo/dir", wantStages: []*stagefile.Stage{dirStage}},
		{name: "ancestor of outputs", path: "/repo", wantStages: []*stagefile.Stage{dirStage, fooStage}},
		{name: "exact file strict", path: "/repo/foo", strict: true, wantStages: []*stagefile.Stage{fooStage}},
		{name: "inside dir strict misses", path: "/repo/dir/subdir/file", strict: true},
		{name: "unknown path", path: "/repo/nothing"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			matches := idx.FindOutsByPath(test.path, test.strict)
			if len(matches) != len(test.wantStages) {
				t.Fatalf("FindOutsByPath(%q, strict=%v) = %d matches, want %d",
					test.path, test.strict, len(matches), len(test.wantStages))
			}
			for i, want := range test.wantStages {
				if matches[i].Stage != want {
					t.Errorf("match %d owned by %s, want %s", i, matches[i].Stage.Ident(), want.Ident())
				}
			}
		})
	}
}

func TestOutLookup(t *testing.T) {
	t.Parallel()

	stage := &stagefile.Stage{
		Path: "/repo/foo.dvc",
		Outs: []stagefile.Out{{Path: "/repo/foo"}},
	}
	idx, err := New([]*stagefile.Stage{stage})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ref, ok := idx.Out("/repo/foo")
	if !ok || ref.Stage != stage {
		t.Errorf("Out(/repo/foo) = %+v, %v", ref, ok)
	}
	if _, ok := idx.Out("/repo/bar"); ok {
		t.Errorf("Out(/repo/bar) found a record, want none")
	}
}
