package domain

import (
	"fmt"
	"strings"
)

const SchemaVersion = 1

type BlockKind string

const (
	KindWork  BlockKind = "work"
	KindRest  BlockKind = "rest"
	KindOther BlockKind = "other"
)

func (k BlockKind) Validate() error {
	switch k {
	case KindWork, KindRest, KindOther, "":
		return nil
	default:
		return fmt.Errorf("unsupported block kind %q", string(k))
	}
}

// Name keywords from the original mobile planner, kept only as a fallback
// for plans that predate the explicit kind field.
var restKeywords = []string{"rest", "sleep", "break", "休息", "睡眠"}

// Block is a top-level day-budget category. ConsumedMin is derived by the
// ledger and never settable from outside.
type Block struct {
	ID          string
	Name        string
	Kind        BlockKind
	DurationMin int
	ConsumedMin int
}

func (b Block) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("block id is required")
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("block name is required")
	}
	if b.DurationMin < 0 {
		return fmt.Errorf("block duration must be non-negative")
	}
	return b.Kind.Validate()
}

// IsRestLike prefers the explicit kind; the name heuristic only applies
// when no kind was declared.
func (b Block) IsRestLike() bool {
	if b.Kind != "" {
		return b.Kind == KindRest
	}
	lower := strings.ToLower(b.Name)
	for _, kw := range restKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Activity is a named, budgeted sub-task nested under exactly one block.
// Definitions are immutable at runtime except for redistribution growth.
type Activity struct {
	ID          string
	Name        string
	Icon        string
	Color       string
	DurationMin int
	Temporary   bool
	BlockID     string
}

func (a Activity) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("activity id is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("activity name is required")
	}
	if a.DurationMin < 0 {
		return fmt.Errorf("activity duration must be non-negative")
	}
	return nil
}

// Plan is the full day configuration handed to the persistence collaborator.
type Plan struct {
	Blocks     []Block
	Activities []Activity
}

func (p Plan) Validate() error {
	byID := make(map[string]struct{}, len(p.Blocks))
	for _, b := range p.Blocks {
		if err := b.Validate(); err != nil {
			return err
		}
		if _, dup := byID[b.ID]; dup {
			return fmt.Errorf("duplicate block id %q", b.ID)
		}
		byID[b.ID] = struct{}{}
	}
	for _, a := range p.Activities {
		if err := a.Validate(); err != nil {
			return err
		}
		if a.BlockID != "" {
			if _, ok := byID[a.BlockID]; !ok {
				return fmt.Errorf("activity %q references unknown block %q", a.ID, a.BlockID)
			}
		}
	}
	return nil
}

// BlockStatus is the derived per-block view: remaining may go negative and
// progress may exceed 100, overrun is a displayed state.
type BlockStatus struct {
	ID           string
	Name         string
	RemainingMin int
	ProgressPct  float64
}

// PauseCredit is one finalized pause interval attributed to a block by name
// snapshot at the moment the pause ended.
type PauseCredit struct {
	TargetName string
	Minutes    int
}

// Usage is the read-only aggregation view of one activity's session that the
// ledger consumes when recomputing consumed time.
type Usage struct {
	ActivityID   string
	BlockID      string
	UsedMin      int
	PauseCredits []PauseCredit
}
