package cpu

const (
	STACK_LIMIT = 16 // Maximum call depth
)

// Stack is the bounded return address stack.
type Stack struct {
	Data [STACK_LIMIT]uint16 // Return addresses.
	Sp   int                 // Next free slot; 0 when empty.
}

// Push stores value in the next free slot.
// Returns false, leaving the stack unchanged, when the stack is full.
func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() {
		return
	}

	s.Data[s.Sp] = value
	s.Sp++
	return true
}

func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Sp--
	}
	return
}

func (s *Stack) Empty() bool {
	return s.Sp == 0
}

// Full reports whether another Push would write past the last slot.
func (s *Stack) Full() bool {
	return s.Sp >= len(s.Data)
}

func (s *Stack) Depth() int {
	return s.Sp
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Sp-1], true
}

func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Sp = 0
}
