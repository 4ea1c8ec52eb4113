package algo

// EdgeComponents groups arc indices into connected components, ignoring
// arc direction. Components are ordered by their smallest arc index and
// each component lists its arcs in ascending order.
func EdgeComponents(n int, arcs []Arc) [][]int {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	for _, a := range arcs {
		ru, rv := find(a.U), find(a.V)
		if ru != rv {
			parent[ru] = rv
		}
	}

	index := make(map[int]int)
	var out [][]int
	for i, a := range arcs {
		r := find(a.U)
		ci, ok := index[r]
		if !ok {
			ci = len(out)
			index[r] = ci
			out = append(out, nil)
		}
		out[ci] = append(out[ci], i)
	}
	return out
}

// IsConnected reports whether all arcs form a single undirected component.
// An empty arc set counts as connected.
func IsConnected(n int, arcs []Arc) bool {
	return len(EdgeComponents(n, arcs)) <= 1
}

// LargestComponent returns the index of the component with the most arcs.
// Ties keep the earlier component.
func LargestComponent(components [][]int) int {
	best := -1
	for i, c := range components {
		if best < 0 || len(c) > len(components[best]) {
			best = i
		}
	}
	return best
}
