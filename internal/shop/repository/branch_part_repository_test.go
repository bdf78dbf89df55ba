package repository

import (
	"testing"
)

func TestBranchTableName(t *testing.T) {
	if got := BranchTableName("abc123"); got != "branch_abc123_parts" {
		t.Errorf("BranchTableName = %q", got)
	}
}

func TestEnsureRejectsUnsafeBranchIDs(t *testing.T) {
	r := NewBranchPartRepository(nil)
	for _, id := range []string{"", "a;drop table parts", "x y", "branch-1", "über"} {
		if _, err := r.ensure(id); err != ErrInvalidBranch {
			t.Errorf("ensure(%q) err = %v, want ErrInvalidBranch", id, err)
		}
	}
}
