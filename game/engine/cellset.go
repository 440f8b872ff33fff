package engine

// cellSet tracks a subset of the grid's linear indices. Iteration order is
// ascending index, which makes nth deterministic for a given Rand.
type cellSet struct {
	cells [CellCount]bool
	size  int
}

func fullCellSet() cellSet {
	var s cellSet
	for i := range s.cells {
		s.cells[i] = true
	}
	s.size = CellCount
	return s
}

func (s *cellSet) remove(i int) {
	if i < 0 || i >= CellCount || !s.cells[i] {
		return
	}
	s.cells[i] = false
	s.size--
}

func (s *cellSet) add(i int) {
	if i < 0 || i >= CellCount || s.cells[i] {
		return
	}
	s.cells[i] = true
	s.size++
}

func (s *cellSet) contains(i int) bool {
	return i >= 0 && i < CellCount && s.cells[i]
}

func (s *cellSet) len() int {
	return s.size
}

// nth returns the k-th member (0-based) in ascending order.
func (s *cellSet) nth(k int) (int, bool) {
	if k < 0 || k >= s.size {
		return 0, false
	}
	for i, ok := range s.cells {
		if !ok {
			continue
		}
		if k == 0 {
			return i, true
		}
		k--
	}
	return 0, false
}

func (s *cellSet) indices() []int {
	out := make([]int, 0, s.size)
	for i, ok := range s.cells {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
