package script

import "testing"

func TestDefaultSettingsValues(t *testing.T) {
	s := DefaultSettings()
	cases := map[string]int{
		"MemoryLimit":     10000,
		"ExecutionsLimit": 1000,
		"SearchLimit":     1000,
		"OpcodeLimit":     100,
		"MaxSliceSize":    8000,
		"MaxStackItems":   100,
		"MaxScriptLen":    20000,
		"MaxNestingDepth": 10,
	}
	got := map[string]int{
		"MemoryLimit":     s.MemoryLimit,
		"ExecutionsLimit": s.ExecutionsLimit,
		"SearchLimit":     s.SearchLimit,
		"OpcodeLimit":     s.OpcodeLimit,
		"MaxSliceSize":    s.MaxSliceSize,
		"MaxStackItems":   s.MaxStackItems,
		"MaxScriptLen":    s.MaxScriptLen,
		"MaxNestingDepth": s.MaxNestingDepth,
	}
	for k, want := range cases {
		if got[k] != want {
			t.Errorf("%s = %d, want %d", k, got[k], want)
		}
	}
	if !s.AllowClear || !s.AllowControlFlow || !s.AllowLoop || !s.AllowJump ||
		!s.AllowNonPush || !s.AllowEval || !s.AllowSandboxedEval || !s.AllowBucketActions {
		t.Error("all capability flags should default to true")
	}
}

func TestSettingsRemaining(t *testing.T) {
	s := DefaultSettings()
	child := s.remaining(100, 10, 5)
	if child.MemoryLimit != s.MemoryLimit-100 {
		t.Errorf("child.MemoryLimit = %d, want %d", child.MemoryLimit, s.MemoryLimit-100)
	}
	if child.ExecutionsLimit != s.ExecutionsLimit-10 {
		t.Errorf("child.ExecutionsLimit = %d, want %d", child.ExecutionsLimit, s.ExecutionsLimit-10)
	}
	if child.SearchLimit != s.SearchLimit-5 {
		t.Errorf("child.SearchLimit = %d, want %d", child.SearchLimit, s.SearchLimit-5)
	}
	if child.AllowEval {
		t.Error("child.AllowEval should be forced false")
	}
}
