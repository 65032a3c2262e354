package common

// State is the compilation state of a single Generate call. It is owned by that
// call alone and is never shared, so it needs no synchronization.
type State struct {
	// Number of live values on the virtual operand stack.
	Depth int
	// Initial depth. Depth never goes below it.
	Floor int

	// SSA-style targets only.
	Values     int      // next fresh value number
	Slots      []string // value name for each live stack slot
	Terminated bool     // the current block already ends in a terminator
	Blocks     int      // next number for unnamed blocks
}

func NewState(floor int) *State {
	return &State{Depth: floor, Floor: floor}
}

// Top returns the depth of the topmost live value, or -1 when the stack is empty.
func (s *State) Top() int {
	if s.Depth <= s.Floor {
		return -1
	}
	return s.Depth - 1
}

// RegisterIndex maps a virtual stack depth to a physical register index.
// Every emission site goes through this function.
func RegisterIndex(depth, base int) int {
	return depth + base
}
