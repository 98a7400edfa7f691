package inventory

type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusCancelled Status = "Cancelled"
)

// Pending may move anywhere (including Pending itself, a no-op write).
// Shipped and Cancelled are terminal.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPending: true, StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {},
	StatusCancelled: {},
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
