// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package gitcli

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// initRepo creates a git repository with one commit containing
// README and data/values.csv, and returns its path.
func initRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
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
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("readme\n"), 0o644); err != nil {
		t.Fatalf("write README: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		t.Fatalf("mkdir data: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data", "values.csv"), []byte("1,2,3\n"), 0o644); err != nil {
		t.Fatalf("write values.csv: %v", err)
	}
	run("add", ".")
	run("commit", "-m", "initial")
	return dir
}

func TestRevParse(t *testing.T) {
	t.Parallel()

	repo := NewRepository(initRepo(t))
	ctx := context.Background()

	hash, err := repo.RevParse(ctx, "main")
	if err != nil {
		t.Fatalf("RevParse(main): %v", err)
	}
	if len(hash) != 40 {
		t.Errorf("RevParse returned %q, want 40-char commit hash", hash)
	}

	if _, err := repo.RevParse(ctx, "no-such-branch"); err == nil {
		t.Errorf("RevParse of unknown revision succeeded, want error")
	}
}

func TestReadBlob(t *testing.T) {
	t.Parallel()

	repo := NewRepository(initRepo(t))
	ctx := context.Background()

	content, err := repo.ReadBlob(ctx, "main", "data/values.csv")
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(content) != "1,2,3\n" {
		t.Errorf("ReadBlob = %q, want %q", content, "1,2,3\n")
	}

	if _, err := repo.ReadBlob(ctx, "main", "data/missing.csv"); err == nil {
		t.Errorf("ReadBlob of missing path succeeded, want error")
	}
}

func TestListTree(t *testing.T) {
	t.Parallel()

	repo := NewRepository(initRepo(t))
	ctx := context.Background()

	entries, err := repo.ListTree(ctx, "main", "")
	if err != nil {
		t.Fatalf("ListTree(root): %v", err)
	}
	want := []TreeEntry{
		{Name: "README", IsDir: false},
		{Name: "data", IsDir: true},
	}
	if len(entries) != len(want) {
		t.Fatalf("ListTree(root) = %v, want %v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("ListTree(root)[%d] = %v, want %v", i, entries[i], want[i])
		}
	}

	sub, err := repo.ListTree(ctx, "main", "data")
	if err != nil {
		t.Fatalf("ListTree(data): %v", err)
	}
	if len(sub) != 1 || sub[0].Name != "values.csv" || sub[0].IsDir {
		t.Errorf("ListTree(data) = %v, want single file values.csv", sub)
	}
}

func TestPathExists(t *testing.T) {
	t.Parallel()

	repo := NewRepository(initRepo(t))
	ctx := context.Background()

	exists, err := repo.PathExists(ctx, "main", "data/values.csv")
	if err != nil {
		t.Fatalf("PathExists: %v", err)
	}
	if !exists {
		t.Errorf("PathExists(data/values.csv) = false, want true")
	}

	exists, err = repo.PathExists(ctx, "main", "data/absent")
	if err != nil {
		t.Fatalf("PathExists: %v", err)
	}
	if exists {
		t.Errorf("PathExists(data/absent) = true, want false")
	}
}
