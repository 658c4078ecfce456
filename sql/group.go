package sql

import uuid "github.com/satori/go.uuid"

// GroupId identifies an independent sub-plan. Partitioned sources create
// sibling copies with distinct GroupIds; a Merge operator re-unifies them
// into a single downstream group. Subquery bindings route results to the
// main plan by GroupId.
type GroupId struct {
	id uuid.UUID
}

// NewGroupId mints a fresh, globally unique GroupId.
func NewGroupId() GroupId {
	return GroupId{id: uuid.NewV4()}
}

func (g GroupId) String() string {
	return g.id.String()
}

func (g GroupId) Equal(o GroupId) bool {
	return g.id == o.id
}

// Zero reports whether this GroupId was never assigned.
func (g GroupId) Zero() bool {
	return g.id == uuid.Nil
}
