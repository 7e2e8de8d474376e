package script

// Settings bounds one script evaluation (§6.3 defaults, §4.6
// capabilities).
type Settings struct {
	MemoryLimit     int
	ExecutionsLimit int
	SearchLimit     int
	OpcodeLimit     int
	MaxSliceSize    int
	MaxStackItems   int
	MaxScriptLen    int
	MaxNestingDepth int

	AllowClear           bool
	AllowControlFlow     bool
	AllowLoop            bool
	AllowJump            bool
	AllowNonPush         bool
	AllowEval            bool
	AllowSandboxedEval   bool
	AllowBucketActions   bool
}

// DefaultSettings returns the §6.3 defaults: all limits set, all
// capabilities enabled.
func DefaultSettings() Settings {
	return Settings{
		MemoryLimit:     10000,
		ExecutionsLimit: 1000,
		SearchLimit:     1000,
		OpcodeLimit:     100,
		MaxSliceSize:    8000,
		MaxStackItems:   100,
		MaxScriptLen:    20000,
		MaxNestingDepth: 10,

		AllowClear:         true,
		AllowControlFlow:   true,
		AllowLoop:          true,
		AllowJump:          true,
		AllowNonPush:       true,
		AllowEval:          true,
		AllowSandboxedEval: true,
		AllowBucketActions: true,
	}
}

// remaining derives a child's budget from the parent's unused
// capacity, for EVALSUB's "sub-VM resource budgets are derived from
// the parent's remaining budget" rule.
func (s Settings) remaining(usedMemory, usedExecutions, usedSearch int) Settings {
	child := s
	child.MemoryLimit -= usedMemory
	child.ExecutionsLimit -= usedExecutions
	child.SearchLimit -= usedSearch
	child.AllowEval = false
	return child
}
