// SPDX-License-Identifier: Unlicense OR MIT

// Package unwind implements a stack of release functions for resources
// that are acquired in steps and must be released in reverse order.
package unwind

// Stack records release functions in acquisition order. The zero value
// is an empty stack ready to use.
type Stack struct {
	fns []func()
}

// Push adds a release function to the top of the stack.
func (s *Stack) Push(release func()) {
	s.fns = append(s.fns, release)
}

// Len returns the number of pending release functions.
func (s *Stack) Len() int {
	return len(s.fns)
}

// Unwind runs all pending release functions, most recent first,
// and leaves the stack empty.
func (s *Stack) Unwind() {
	for i := len(s.fns) - 1; i >= 0; i-- {
		fn := s.fns[i]
		s.fns[i] = nil
		fn()
	}
	s.fns = s.fns[:0]
}

// Release transfers the pending functions to a new Stack and
// leaves s empty. It is used to keep acquired resources alive past
// the scope that acquired them.
func (s *Stack) Release() *Stack {
	r := &Stack{fns: s.fns}
	s.fns = nil
	return r
}
