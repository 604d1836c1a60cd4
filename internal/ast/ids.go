package ast

import "fmt"

// NodeID is a 1-based index into the tree arena. IDs are never reused.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Handle is a generation-checked node address. It goes stale as soon as the
// node is detached from the position it occupied when the handle was taken.
type Handle struct {
	ID  NodeID
	Gen uint32
}

func (h Handle) IsValid() bool { return h.ID.IsValid() }

func (h Handle) String() string {
	return fmt.Sprintf("#%d@%d", h.ID, h.Gen)
}
