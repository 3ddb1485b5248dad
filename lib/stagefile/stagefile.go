// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

// Package stagefile parses stage definitions: single-stage ".dvc"
// files (written when data is added to tracking) and multi-stage
// "dvc.yaml" pipeline files. Both are YAML.
//
// A stage declares named dependencies and outputs. Paths inside a
// definition are relative to the directory containing the definition
// file; the parser resolves them to absolute engine paths so the
// graph layer never re-derives them.
package stagefile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/HelloBroBro/dvc/lib/objectid"
	"github.com/HelloBroBro/dvc/lib/repofs"
)

// PipelineFileName is the multi-stage definition filename.
const PipelineFileName = "dvc.yaml"

// TrackedSuffix is the single-stage definition filename suffix.
const TrackedSuffix = ".dvc"

// Out is one declared output of a stage.
type Out struct {
	// Path is the absolute, normalized output path.
	Path string

	// ID is the recorded content identifier, zero when the
	// definition does not record one (never-hashed output, or a
	// pipeline output whose hash lives elsewhere).
	ID objectid.ID

	// IsDir reports whether the recorded identifier is a directory
	// identifier.
	IsDir bool

	// Remote optionally names the remote scope this output's
	// objects belong to. Empty means the default scope.
	Remote string
}

// Stage is a parsed stage definition. Identity is the definition
// file path plus the stage name; two stages parsed from different
// files are distinct even when byte-identical.
type Stage struct {
	// Path is the absolute, normalized path of the definition file.
	Path string

	// Name is the stage name for pipeline stages, empty for
	// single-stage .dvc files.
	Name string

	// Cmd is the stage command, opaque to the engine.
	Cmd string

	// Deps are absolute, normalized dependency paths, in
	// declaration order.
	Deps []string

	// Outs are the declared outputs, in declaration order.
	Outs []Out
}

// Ident returns the stage identity string used in error reports:
// the definition file path, with ":name" appended for named stages.
func (s *Stage) Ident() string {
	if s.Name == "" {
		return s.Path
	}
	return s.Path + ":" + s.Name
}

// trackedFile is the YAML shape of a .dvc file.
type trackedFile struct {
	Cmd  string       `yaml:"cmd,omitempty"`
	Deps []trackedDep `yaml:"deps,omitempty"`
	Outs []trackedOut `yaml:"outs"`
}

type trackedDep struct {
	Path string `yaml:"path"`
	MD5  string `yaml:"md5,omitempty"`
}

type trackedOut struct {
	Path   string `yaml:"path"`
	MD5    string `yaml:"md5,omitempty"`
	Hash   string `yaml:"hash,omitempty"`
	Size   int64  `yaml:"size,omitempty"`
	Remote string `yaml:"remote,omitempty"`
}

// pipelineFile is the YAML shape of a dvc.yaml file.
type pipelineFile struct {
	Stages map[string]pipelineStage `yaml:"stages"`
}

type pipelineStage struct {
	Cmd  string   `yaml:"cmd"`
	Deps []string `yaml:"deps,omitempty"`
	Outs []string `yaml:"outs,omitempty"`
}

// outID converts the recorded digest fields of a tracked out to an
// ID. The "hash" field overrides the algorithm name; "md5" is the
// classic form.
func (o trackedOut) outID() objectid.ID {
	if o.MD5 == "" {
		return objectid.ID{}
	}
	algorithm := "md5"
	if o.Hash != "" {
		algorithm = o.Hash
	}
	return objectid.ID{Algorithm: algorithm, Digest: o.MD5}
}

// ParseTracked parses a single-stage .dvc file. filePath is the
// absolute path of the definition file; out and dep paths are
// resolved against its directory.
func ParseTracked(data []byte, filePath string) (*Stage, error) {
	var parsed trackedFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	filePath = repofs.Normalize(filePath)
	baseDir := repofs.Join(filePath, "..")

	stage := &Stage{Path: filePath, Cmd: parsed.Cmd}
	for _, dep := range parsed.Deps {
		if dep.Path == "" {
			return nil, fmt.Errorf("parsing %s: dependency with empty path", filePath)
		}
		stage.Deps = append(stage.Deps, repofs.Join(baseDir, dep.Path))
	}
	for _, out := range parsed.Outs {
		if out.Path == "" {
			return nil, fmt.Errorf("parsing %s: output with empty path", filePath)
		}
		id := out.outID()
		stage.Outs = append(stage.Outs, Out{
			Path:   repofs.Join(baseDir, out.Path),
			ID:     id,
			IsDir:  id.IsDir(),
			Remote: out.Remote,
		})
	}
	return stage, nil
}

// ParsePipeline parses a dvc.yaml file into its stages. Stage order
// follows the file's mapping order as YAML reports it; graph
// semantics do not depend on it.
func ParsePipeline(data []byte, filePath string) ([]*Stage, error) {
	filePath = repofs.Normalize(filePath)
	baseDir := repofs.Join(filePath, "..")

	// Decode through yaml.Node first to preserve declaration order;
	// map decoding would randomize it.
	var document struct {
		Stages yaml.Node `yaml:"stages"`
	}
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	if document.Stages.Kind == 0 {
		return nil, nil
	}
	if document.Stages.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing %s: stages must be a mapping", filePath)
	}

	var stages []*Stage
	content := document.Stages.Content
	for i := 0; i+1 < len(content); i += 2 {
		name := content[i].Value
		var body pipelineStage
		if err := content[i+1].Decode(&body); err != nil {
			return nil, fmt.Errorf("parsing %s: stage %q: %w", filePath, name, err)
		}
		stage := &Stage{Path: filePath, Name: name, Cmd: body.Cmd}
		for _, dep := range body.Deps {
			if dep == "" {
				return nil, fmt.Errorf("parsing %s: stage %q: dependency with empty path", filePath, name)
			}
			stage.Deps = append(stage.Deps, repofs.Join(baseDir, dep))
		}
		for _, out := range body.Outs {
			if out == "" {
				return nil, fmt.Errorf("parsing %s: stage %q: output with empty path", filePath, name)
			}
			stage.Outs = append(stage.Outs, Out{Path: repofs.Join(baseDir, out)})
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// Validate checks a parsed stage for structural issues. Returns a
// list of human-readable issue descriptions; empty means valid.
func Validate(stage *Stage) []string {
	var issues []string

	if stage.Name == "" && len(stage.Outs) == 0 {
		issues = append(issues, "tracked file declares no outputs")
	}
	if stage.Name != "" && stage.Cmd == "" {
		issues = append(issues, fmt.Sprintf("stage %q has no command", stage.Name))
	}

	seen := make(map[string]bool, len(stage.Outs))
	for _, out := range stage.Outs {
		if seen[out.Path] {
			issues = append(issues, fmt.Sprintf("output %s declared more than once", out.Path))
		}
		seen[out.Path] = true
		if !out.ID.IsZero() {
			if err := out.ID.Validate(); err != nil {
				issues = append(issues, fmt.Sprintf("output %s: %v", out.Path, err))
			}
		}
	}

	for _, dep := range stage.Deps {
		if seen[dep] {
			issues = append(issues, fmt.Sprintf("path %s is both a dependency and an output", dep))
		}
	}

	return issues
}

// WriteTracked serializes a single-stage definition back to the
// .dvc YAML form. Paths are written relative to the definition
// file's directory.
func WriteTracked(stage *Stage) ([]byte, error) {
	baseDir := repofs.Join(stage.Path, "..")

	var out trackedFile
	out.Cmd = stage.Cmd
	for _, dep := range stage.Deps {
		relative, ok := repofs.Rel(baseDir, dep)
		if !ok {
			return nil, fmt.Errorf("dependency %s is outside %s", dep, baseDir)
		}
		out.Deps = append(out.Deps, trackedDep{Path: relative})
	}
	for _, stageOut := range stage.Outs {
		relative, ok := repofs.Rel(baseDir, stageOut.Path)
		if !ok {
			return nil, fmt.Errorf("output %s is outside %s", stageOut.Path, baseDir)
		}
		entry := trackedOut{Path: relative, Remote: stageOut.Remote}
		if !stageOut.ID.IsZero() {
			entry.MD5 = stageOut.ID.Digest
			if stageOut.ID.Algorithm != "md5" {
				entry.Hash = stageOut.ID.Algorithm
			}
		}
		out.Outs = append(out.Outs, entry)
	}
	return yaml.Marshal(&out)
}
