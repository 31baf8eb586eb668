package pipeline

// State is a step of the driver's state machine.
type State int

const (
	StateNextSource State = iota
	StateQuery
	StateNoRecords
	StateFilter
	StateEmpty
	StateSort
	StateLink
	StateStats
	StateDone
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateNextSource:
		return "NEXT_SOURCE"
	case StateQuery:
		return "QUERY"
	case StateNoRecords:
		return "NO_RECORDS"
	case StateFilter:
		return "FILTER"
	case StateEmpty:
		return "EMPTY"
	case StateSort:
		return "SORT"
	case StateLink:
		return "LINK"
	case StateStats:
		return "STATS"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}
