package branch

import (
	"errors"
	"fmt"

	"github.com/multimediallc/complot/pkg/schedule"
)

var ErrBranchNotFound = errors.New("branch not found in completion table")

// lookahead is the number of following completions that must start above the current end MD
const lookahead = 3

// Range is an inclusive index range into a completion table
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Split divides an ordered completion table into lateral branches. Completion i closes a branch
// when the next three completions all start shallower than completion i ends. Once fewer than
// three completions follow, the current branch runs to the end of the table.
//
// The rule is a heuristic and is not checked against the number of laterals in the deck.
func Split(completions []schedule.Completion) []Range {
	n := len(completions)
	if n == 0 {
		return nil
	}
	var ranges []Range
	start := 0
	for idx := range n {
		if idx >= n-lookahead {
			ranges = append(ranges, Range{Start: start, End: n - 1})
			break
		}
		end := completions[idx].EndMD
		reversed := true
		for k := 1; k <= lookahead; k++ {
			if completions[idx+k].StartMD >= end {
				reversed = false
				break
			}
		}
		if reversed {
			ranges = append(ranges, Range{Start: start, End: idx})
			start = idx + 1
		}
	}
	return ranges
}

// Select returns the completions of the 1-indexed branch
func Select(completions []schedule.Completion, branch int) ([]schedule.Completion, error) {
	ranges := Split(completions)
	if branch < 1 || branch > len(ranges) {
		return nil, fmt.Errorf("%w: branch %d requested, %d detected", ErrBranchNotFound, branch, len(ranges))
	}
	r := ranges[branch-1]
	return completions[r.Start : r.End+1], nil
}
