package checkpoint

import (
	"github.com/neurlang/quaternary"

	"github.com/neurlang/refrl/hash"
)

const solvedSalt = 0x5f3759df

// MakeSolved builds a filter answering, for every sample id in outcomes, whether it was solved.
// The filter is undefined for ids outside outcomes.
func MakeSolved(outcomes map[string]bool) []byte {
	if len(outcomes) == 0 {
		return nil
	}
	set := make(map[uint32]bool, len(outcomes))
	for id, ok := range outcomes {
		set[hash.String(id, solvedSalt)] = ok
	}
	return []byte(quaternary.Make(set))
}

// Solved queries a filter built by MakeSolved.
func Solved(filter []byte, id string) bool {
	if len(filter) == 0 {
		return false
	}
	return quaternary.Filter(filter).GetUint32(hash.String(id, solvedSalt))
}
