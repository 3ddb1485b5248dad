// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package index builds and queries the stage dependency graph.
//
// Nodes are stages parsed from definition files under the repository
// root. Edges are derived, never stored: stage A depends on stage B
// when one of A's dependency paths equals or lies inside one of B's
// output paths. The one structural invariant is that no output path
// is claimed by two stages — [Build] rejects such graphs with
// [DuplicateOutputError] before anything can query them.
//
// The index is immutable once built. Lazy rebuild-on-invalidation is
// the repo layer's job; this package only knows how to construct and
// answer questions about one consistent snapshot.
package index

import (
	"fmt"
	"log/slog"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/HelloBroBro/dvc/lib/repofs"
	"github.com/HelloBroBro/dvc/lib/stagefile"
)

// internalDirName is the repository bookkeeping directory. Files
// under it are never stage definitions.
const internalDirName = ".dvc"

// ignoreFileName holds gitignore-style patterns excluding paths from
// stage discovery.
const ignoreFileName = ".dvcignore"

// OutRef pairs an output with its owning stage.
type OutRef struct {
	Stage *stagefile.Stage
	Out   *stagefile.Out
}

// Index is a validated snapshot of the stage graph.
type Index struct {
	stages []*stagefile.Stage

	// outs maps each output path to its unique owner.
	outs map[string]OutRef

	// deps maps each stage (by slice position) to the positions of
	// the stages it depends on.
	deps [][]int

	position map[*stagefile.Stage]int
}

// Build discovers stage definition files under rootDir on fsys,
// parses them, validates the graph, and returns the index. Paths
// under the internal bookkeeping directory and paths matching the
// root .dvcignore are skipped.
func Build(fsys repofs.FS, rootDir string) (*Index, error) {
	rootDir = repofs.Normalize(rootDir)

	files, err := discover(fsys, rootDir)
	if err != nil {
		return nil, err
	}

	var stages []*stagefile.Stage
	for _, file := range files {
		data, err := fsys.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading stage definition %s: %w", file, err)
		}
		var parsed []*stagefile.Stage
		if strings.HasSuffix(file, "/"+stagefile.PipelineFileName) {
			parsed, err = stagefile.ParsePipeline(data, file)
		} else {
			var single *stagefile.Stage
			single, err = stagefile.ParseTracked(data, file)
			if single != nil {
				parsed = []*stagefile.Stage{single}
			}
		}
		if err != nil {
			return nil, err
		}
		for _, stage := range parsed {
			if issues := stagefile.Validate(stage); len(issues) > 0 {
				return nil, fmt.Errorf("invalid stage %s: %s", stage.Ident(), strings.Join(issues, "; "))
			}
		}
		stages = append(stages, parsed...)
	}

	built, err := New(stages)
	if err != nil {
		return nil, err
	}
	slog.Debug("stage graph built",
		"root", rootDir, "files", len(files), "stages", len(stages))
	return built, nil
}

// New validates the given stages and assembles the index. Split from
// [Build] so tests and callers with already-parsed stages can
// construct graphs without a filesystem.
func New(stages []*stagefile.Stage) (*Index, error) {
	idx := &Index{
		stages:   stages,
		outs:     make(map[string]OutRef),
		position: make(map[*stagefile.Stage]int, len(stages)),
	}
	for i, stage := range stages {
		idx.position[stage] = i
	}

	// Duplicate-output check. Exact path duplication is rejected
	// here; overlap by containment (one stage's output nested in
	// another's directory output) is equally fatal.
	for _, stage := range stages {
		for i := range stage.Outs {
			out := &stage.Outs[i]
			if existing, ok := idx.outs[out.Path]; ok {
				return nil, &DuplicateOutputError{
					Path:   out.Path,
					Stages: []string{existing.Stage.Ident(), stage.Ident()},
				}
			}
			idx.outs[out.Path] = OutRef{Stage: stage, Out: out}
		}
	}
	for _, stage := range stages {
		for i := range stage.Outs {
			out := &stage.Outs[i]
			for otherPath, other := range idx.outs {
				if other.Stage == stage {
					continue
				}
				if otherPath != out.Path && repofs.Contains(out.Path, otherPath) {
					return nil, &DuplicateOutputError{
						Path:   otherPath,
						Stages: []string{stage.Ident(), other.Stage.Ident()},
					}
				}
			}
		}
	}

	// Derive edges: dep path equal to or inside an output path.
	idx.deps = make([][]int, len(stages))
	for i, stage := range stages {
		seen := make(map[int]bool)
		for _, dep := range stage.Deps {
			for outPath, owner := range idx.outs {
				// A depends on B when the dep path equals or lies
				// inside one of B's output paths.
				if !repofs.Contains(outPath, dep) {
					continue
				}
				j := idx.position[owner.Stage]
				if j == i || seen[j] {
					continue
				}
				seen[j] = true
				idx.deps[i] = append(idx.deps[i], j)
			}
		}
	}

	if err := idx.checkCycles(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Stages returns the indexed stages in discovery order.
func (idx *Index) Stages() []*stagefile.Stage {
	return idx.stages
}

// Out returns the output record for an exact output path.
func (idx *Index) Out(path string) (OutRef, bool) {
	ref, ok := idx.outs[repofs.Normalize(path)]
	return ref, ok
}

// checkCycles runs a coloring DFS over the derived edges and returns
// a CycleError naming the participating stages if any cycle exists.
func (idx *Index) checkCycles() error {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS path
		black = 2 // finished
	)
	color := make([]int, len(idx.stages))
	var path []int

	var visit func(i int) *CycleError
	visit = func(i int) *CycleError {
		color[i] = gray
		path = append(path, i)
		for _, j := range idx.deps[i] {
			switch color[j] {
			case gray:
				// Found the cycle: everything on the path from j.
				var names []string
				start := 0
				for k, node := range path {
					if node == j {
						start = k
						break
					}
				}
				for _, node := range path[start:] {
					names = append(names, idx.stages[node].Ident())
				}
				return &CycleError{Stages: names}
			case white:
				if err := visit(j); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		color[i] = black
		return nil
	}

	for i := range idx.stages {
		if color[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// TopoSort returns the stages in dependency order: every stage
// appears after all stages it depends on. The index is already known
// acyclic, so this cannot fail.
func (idx *Index) TopoSort() []*stagefile.Stage {
	visited := make([]bool, len(idx.stages))
	var order []*stagefile.Stage

	var visit func(i int)
	visit = func(i int) {
		visited[i] = true
		for _, j := range idx.deps[i] {
			if !visited[j] {
				visit(j)
			}
		}
		order = append(order, idx.stages[i])
	}

	for i := range idx.stages {
		if !visited[i] {
			visit(i)
		}
	}
	return order
}

// discover walks rootDir and returns the stage definition files in
// deterministic order: dvc.yaml files and *.dvc files, excluding the
// internal directory, .git, and .dvcignore matches.
func discover(fsys repofs.FS, rootDir string) ([]string, error) {
	ignore, err := loadIgnore(fsys, rootDir)
	if err != nil {
		return nil, err
	}

	var files []string
	err = repofs.Walk(fsys, rootDir, func(path string, info repofs.Info) error {
		relative, ok := repofs.Rel(rootDir, path)
		if !ok || relative == "" {
			return nil
		}
		base := relative
		if i := strings.LastIndexByte(relative, '/'); i >= 0 {
			base = relative[i+1:]
		}
		if info.IsDir {
			if base == internalDirName || base == ".git" {
				return repofs.SkipDir
			}
			if ignore != nil && ignore.MatchesPath(relative+"/") {
				return repofs.SkipDir
			}
			return nil
		}
		if ignore != nil && ignore.MatchesPath(relative) {
			return nil
		}
		if base == stagefile.PipelineFileName || strings.HasSuffix(base, stagefile.TrackedSuffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering stage definitions under %s: %w", rootDir, err)
	}
	return files, nil
}

// loadIgnore compiles the root .dvcignore, if present.
func loadIgnore(fsys repofs.FS, rootDir string) (*gitignore.GitIgnore, error) {
	ignorePath := repofs.Join(rootDir, ignoreFileName)
	if !fsys.Exists(ignorePath) {
		return nil, nil
	}
	data, err := fsys.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ignorePath, err)
	}
	return gitignore.CompileIgnoreLines(strings.Split(string(data), "\n")...), nil
}
