// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package objectid

import "testing"

func TestDirSuffixIdentity(t *testing.T) {
	t.Parallel()

	file := New("md5", "8c7dd922ad47494fc02c388e12c00eac")
	dir := NewDir("md5", "8c7dd922ad47494fc02c388e12c00eac")

	if file == dir {
		t.Fatalf("file and directory IDs with equal digest bytes must differ")
	}
	if file.IsDir() {
		t.Errorf("file ID reports IsDir")
	}
	if !dir.IsDir() {
		t.Errorf("directory ID does not report IsDir")
	}
	if dir.Raw() != file.Digest {
		t.Errorf("Raw() = %q, want %q", dir.Raw(), file.Digest)
	}

	// NewDir must not double-append the suffix.
	again := NewDir("md5", dir.Digest)
	if again != dir {
		t.Errorf("NewDir on suffixed digest = %v, want %v", again, dir)
	}
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{
			name:  "file",
			input: "md5:8c7dd922ad47494fc02c388e12c00eac",
			want:  New("md5", "8c7dd922ad47494fc02c388e12c00eac"),
		},
		{
			name:  "directory",
			input: "md5:70922d6bf66eb073053a82f77d58c536.dir",
			want:  NewDir("md5", "70922d6bf66eb073053a82f77d58c536"),
		},
		{
			name:    "missing separator",
			input:   "8c7dd922ad47494fc02c388e12c00eac",
			wantErr: true,
		},
		{
			name:    "empty digest",
			input:   "md5:",
			wantErr: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(test.input)
			if test.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", test.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", test.input, err)
			}
			if got != test.want {
				t.Errorf("Parse(%q) = %v, want %v", test.input, got, test.want)
			}
			if got.String() != test.input {
				t.Errorf("round trip = %q, want %q", got.String(), test.input)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      ID
		wantErr bool
	}{
		{
			name: "md5 file",
			id:   New("md5", "8c7dd922ad47494fc02c388e12c00eac"),
		},
		{
			name: "md5 directory",
			id:   NewDir("md5", "70922d6bf66eb073053a82f77d58c536"),
		},
		{
			name: "sha256 file",
			id:   New("sha256", "2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae"),
		},
		{
			name:    "single character digest",
			id:      New("md5", "a"),
			wantErr: true,
		},
		{
			name:    "suffix-only digest",
			id:      ID{Algorithm: "md5", Digest: DirSuffix},
			wantErr: true,
		},
		{
			name:    "uppercase hex",
			id:      New("md5", "8C7DD922AD47494FC02C388E12C00EAC"),
			wantErr: true,
		},
		{
			name:    "odd length",
			id:      New("md5", "8c7dd922ad47494fc02c388e12c00eac0"),
			wantErr: true,
		},
		{
			name:    "missing algorithm",
			id:      New("", "8c7dd922ad47494fc02c388e12c00eac"),
			wantErr: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := test.id.Validate()
			if test.wantErr && err == nil {
				t.Fatalf("Validate(%v) succeeded, want error", test.id)
			}
			if !test.wantErr && err != nil {
				t.Fatalf("Validate(%v): %v", test.id, err)
			}
		})
	}
}

func TestZeroValue(t *testing.T) {
	t.Parallel()

	var id ID
	if !id.IsZero() {
		t.Errorf("zero ID does not report IsZero")
	}
	if New("md5", "d41d8cd98f00b204e9800998ecf8427e").IsZero() {
		t.Errorf("populated ID reports IsZero")
	}
}
