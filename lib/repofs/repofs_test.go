// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package repofs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"testing"

	"github.com/HelloBroBro/dvc/lib/gitcli"
)

// genTree writes the given name→content files under dir, creating
// parent directories as needed.
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

func TestLocalWalkDeterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	genTree(t, dir, map[string]string{
		"b.txt":       "b",
		"a/nested":    "n",
		"a/other":     "o",
		"c/deep/file": "f",
	})

	fsys := NewLocal()
	root := Normalize(dir)

	var visited []string
	err := Walk(fsys, root, func(path string, info Info) error {
		relative, _ := Rel(root, path)
		if relative != "" {
			visited = append(visited, relative)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"a", "a/nested", "a/other", "b.txt", "c", "c/deep", "c/deep/file"}
	if len(visited) != len(want) {
		t.Fatalf("Walk visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("Walk order[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}

func TestWalkSkipDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	genTree(t, dir, map[string]string{
		".dvc/config": "{}",
		"data/file":   "x",
	})

	fsys := NewLocal()
	root := Normalize(dir)

	var files []string
	err := Walk(fsys, root, func(path string, info Info) error {
		relative, _ := Rel(root, path)
		if info.IsDir && relative == ".dvc" {
			return SkipDir
		}
		if !info.IsDir {
			files = append(files, relative)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 || files[0] != "data/file" {
		t.Errorf("Walk with SkipDir visited %v, want [data/file]", files)
	}
}

// initGitTree creates a git repo at a temp dir with the given files
// committed on branch main, and returns the directory.
func initGitTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	genTree(t, dir, files)
	run := func(args ...string) {
		t.Helper()
		command := exec.Command("git", append([]string{"-C", dir}, args...)...)
		command.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@test.local",
			"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@test.local",
		)
		if output, err := command.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, output)
		}
	}
	run("init", "-b", "main")
	run("add", ".")
	run("commit", "-m", "initial")
	return dir
}

func TestGitFileSystemMirrorsLiveLayout(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"top.txt":          "top",
		"dir/subdir/file":  "file",
		"dir/other":        "other",
		"project_a/.seen":  "",
	}
	dir := initGitTree(t, files)

	gfs, err := NewGitFileSystem(context.Background(), gitcli.NewRepository(dir), "main")
	if err != nil {
		t.Fatalf("NewGitFileSystem: %v", err)
	}

	if gfs.Root() != "/" {
		t.Errorf("Root() = %q, want /", gfs.Root())
	}

	content, err := gfs.ReadFile("/dir/subdir/file")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "file" {
		t.Errorf("ReadFile = %q, want %q", content, "file")
	}

	entries, err := gfs.ReadDir("/dir")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "other" || names[1] != "subdir" {
		t.Errorf("ReadDir(/dir) = %v, want [other subdir]", names)
	}

	info, err := gfs.Stat("/dir/subdir")
	if err != nil {
		t.Fatalf("Stat(/dir/subdir): %v", err)
	}
	if !info.IsDir {
		t.Errorf("Stat(/dir/subdir).IsDir = false, want true")
	}

	if !gfs.Exists("/top.txt") {
		t.Errorf("Exists(/top.txt) = false, want true")
	}
	if gfs.Exists("/never-committed") {
		t.Errorf("Exists(/never-committed) = true, want false")
	}
	if _, err := gfs.ReadFile("/never-committed"); err == nil {
		t.Errorf("ReadFile of missing path succeeded, want error")
	}
}

func TestGitFileSystemIgnoresLiveChanges(t *testing.T) {
	t.Parallel()

	dir := initGitTree(t, map[string]string{"stable.txt": "v1"})

	gfs, err := NewGitFileSystem(context.Background(), gitcli.NewRepository(dir), "main")
	if err != nil {
		t.Fatalf("NewGitFileSystem: %v", err)
	}

	// Mutate the live tree after pinning the revision.
	genTree(t, dir, map[string]string{"stable.txt": "v2", "new.txt": "new"})

	content, err := gfs.ReadFile("/stable.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "v1" {
		t.Errorf("revision-backed read = %q, want pinned content %q", content, "v1")
	}
	if gfs.Exists("/new.txt") {
		t.Errorf("uncommitted file visible through revision-backed filesystem")
	}
}
