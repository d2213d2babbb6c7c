package session

import (
	"fmt"

	"github.com/jfmyers9/play/internal/catalog"
)

// Decision is the user's answer for one file during a filter pass
type Decision int

const (
	DecisionYes  Decision = iota // Keep the file
	DecisionNo                   // Drop the file
	DecisionQuit                 // Stop, dropping this and every remaining file
)

// String returns a human-readable representation of the Decision
func (d Decision) String() string {
	switch d {
	case DecisionYes:
		return "yes"
	case DecisionNo:
		return "no"
	case DecisionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Decider asks whether to keep a file
type Decider func(entry catalog.Entry) (Decision, error)

// Filter makes a single forward pass over files, keeping those the decider
// answers yes for. A quit answer ends the pass and the undecided files are
// dropped. files is not modified.
func Filter(files []catalog.Entry, decide Decider) ([]catalog.Entry, error) {
	kept := make([]catalog.Entry, 0, len(files))

	for _, f := range files {
		d, err := decide(f)
		if err != nil {
			return nil, fmt.Errorf("failed to filter %s: %w", f.Rel, err)
		}

		switch d {
		case DecisionYes:
			kept = append(kept, f)
		case DecisionNo:
		case DecisionQuit:
			return kept, nil
		default:
			return nil, fmt.Errorf("unknown filter decision %d", d)
		}
	}

	return kept, nil
}
