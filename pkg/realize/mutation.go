package realize

import (
	"fmt"

	"github.com/matzehuels/ratiogrid/pkg/errors"
)

// Mutation is a dataset change notification. The concrete types are
// Insert, Remove, Replace, Move and Reset.
type Mutation interface {
	// Kind returns the lowercase mutation name.
	Kind() string
	fmt.Stringer
	isMutation()
}

// Insert reports Count new items starting at At.
type Insert struct {
	At    int `json:"at" toml:"at"`
	Count int `json:"count" toml:"count"`
}

// Remove reports Count items removed starting at At. A negative At means
// the removed positions are unknown.
type Remove struct {
	At    int `json:"at" toml:"at"`
	Count int `json:"count" toml:"count"`
}

// Replace reports OldCount items at OldAt replaced by NewCount items at NewAt.
type Replace struct {
	OldAt    int `json:"old_at" toml:"old_at"`
	OldCount int `json:"old_count" toml:"old_count"`
	NewAt    int `json:"new_at" toml:"new_at"`
	NewCount int `json:"new_count" toml:"new_count"`
}

// Move reports Count items moved from OldAt to NewAt.
type Move struct {
	OldAt int `json:"old_at" toml:"old_at"`
	NewAt int `json:"new_at" toml:"new_at"`
	Count int `json:"count" toml:"count"`
}

// Reset reports an unstructured change of the whole dataset.
type Reset struct{}

func (Insert) Kind() string  { return "insert" }
func (Remove) Kind() string  { return "remove" }
func (Replace) Kind() string { return "replace" }
func (Move) Kind() string    { return "move" }
func (Reset) Kind() string   { return "reset" }

func (m Insert) String() string { return fmt.Sprintf("insert(at=%d, count=%d)", m.At, m.Count) }
func (m Remove) String() string { return fmt.Sprintf("remove(at=%d, count=%d)", m.At, m.Count) }
func (m Replace) String() string {
	return fmt.Sprintf("replace(old=%d+%d, new=%d+%d)", m.OldAt, m.OldCount, m.NewAt, m.NewCount)
}
func (m Move) String() string  { return fmt.Sprintf("move(%d->%d, count=%d)", m.OldAt, m.NewAt, m.Count) }
func (m Reset) String() string { return "reset" }

func (Insert) isMutation()  {}
func (Remove) isMutation()  {}
func (Replace) isMutation() {}
func (Move) isMutation()    {}
func (Reset) isMutation()   {}

// Notification is the flat form of a change event as delivered by
// collection sources and scripts: a kind plus old and new spans.
type Notification struct {
	Kind     string `json:"kind" toml:"kind"`
	OldStart int    `json:"old_start" toml:"old_start"`
	OldCount int    `json:"old_count" toml:"old_count"`
	NewStart int    `json:"new_start" toml:"new_start"`
	NewCount int    `json:"new_count" toml:"new_count"`
}

// Mutation converts the flat notification into its typed variant.
func (n Notification) Mutation() (Mutation, error) {
	switch n.Kind {
	case "insert", "add":
		if n.NewCount < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "insert count cannot be negative")
		}
		return Insert{At: n.NewStart, Count: n.NewCount}, nil
	case "remove":
		if n.OldCount < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "remove count cannot be negative")
		}
		return Remove{At: n.OldStart, Count: n.OldCount}, nil
	case "replace":
		return Replace{OldAt: n.OldStart, OldCount: n.OldCount, NewAt: n.NewStart, NewCount: n.NewCount}, nil
	case "move":
		count := n.OldCount
		if count == 0 {
			count = 1
		}
		return Move{OldAt: n.OldStart, NewAt: n.NewStart, Count: count}, nil
	case "reset":
		return Reset{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown mutation kind %q", n.Kind)
}
