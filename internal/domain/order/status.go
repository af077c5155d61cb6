package order

// Status represents the lifecycle state of an order.
type Status string

const (
	// StatusCreated is the initial state of every order.
	StatusCreated Status = "CREATED"
	// StatusInProgress is entered as soon as the first item is added.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusDelivered marks the order as served to the table.
	StatusDelivered Status = "DELIVERED"
	// StatusClosed is the terminal state of a paid order.
	StatusClosed Status = "CLOSED"
	// StatusCancelled is the terminal state of an abandoned order.
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusDelivered, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether s admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// CanTransitionTo is the single decision point for status transitions.
// Terminal states admit no change (a no-op transition to the same status
// is tolerated); any other move is permitted.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return s == next
	}
	return true
}
