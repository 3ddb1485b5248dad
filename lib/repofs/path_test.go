// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package repofs

import "testing"

func TestRel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		parent  string
		child   string
		want    string
		wantOK  bool
	}{
		{name: "equal roots", parent: "/work", child: "/work", want: "", wantOK: true},
		{name: "direct child", parent: "/work", child: "/work/project_a", want: "project_a", wantOK: true},
		{name: "nested child", parent: "/work", child: "/work/subdir/project_b", want: "subdir/project_b", wantOK: true},
		{name: "virtual root", parent: "/", child: "/project_a", want: "project_a", wantOK: true},
		{name: "virtual root equal", parent: "/", child: "/", want: "", wantOK: true},
		{name: "outside parent", parent: "/work", child: "/other/project", wantOK: false},
		{name: "sibling prefix is not containment", parent: "/work", child: "/workspace", wantOK: false},
		{name: "backslash input", parent: `\work`, child: `\work\project_a`, want: "project_a", wantOK: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Rel(test.parent, test.child)
			if ok != test.wantOK {
				t.Fatalf("Rel(%q, %q) ok = %v, want %v", test.parent, test.child, ok, test.wantOK)
			}
			if ok && got != test.want {
				t.Errorf("Rel(%q, %q) = %q, want %q", test.parent, test.child, got, test.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		parent string
		child  string
		want   bool
	}{
		{name: "self", parent: "/data", child: "/data", want: true},
		{name: "nested", parent: "/data", child: "/data/dir/file", want: true},
		{name: "sibling prefix", parent: "/data", child: "/database", want: false},
		{name: "parent of", parent: "/data/dir", child: "/data", want: false},
		{name: "root contains all", parent: "/", child: "/anything", want: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := Contains(test.parent, test.child); got != test.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", test.parent, test.child, got, test.want)
			}
		})
	}
}
