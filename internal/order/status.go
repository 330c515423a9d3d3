package order

import "errors"

// Status tracks an order through its lifecycle. Only the order's farmer
// moves it forward.
type Status string

const (
	// StatusPending is the state every order is created in.
	StatusPending Status = "pending"
	// StatusConfirmed indicates the farmer accepted the order.
	StatusConfirmed Status = "confirmed"
	// StatusProcessing indicates the farmer is preparing the produce.
	StatusProcessing Status = "processing"
	// StatusShipped indicates the order left the farm.
	StatusShipped Status = "shipped"
	// StatusDelivered indicates the buyer received the order. Terminal.
	StatusDelivered Status = "delivered"
	// StatusCancelled indicates the order was called off. Terminal.
	StatusCancelled Status = "cancelled"
)

var ErrInvalidTransition = errors.New("illegal status transition")

var nextStatuses = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", errors.New("unknown order status: " + s)
}

func (s Status) String() string {
	return string(s)
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range nextStatuses[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal targets from s, empty for terminal states.
func (s Status) NextStatuses() []Status {
	out := make([]Status, len(nextStatuses[s]))
	copy(out, nextStatuses[s])
	return out
}
