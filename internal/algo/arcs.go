package algo

// Arc is one traversable connection between two vertices.
// Undirected arcs may be used in both directions.
type Arc struct {
	U, V     int
	Weight   float64
	Directed bool
}

// Other returns the far end of a when leaving from u.
func (a Arc) Other(u int) int {
	if a.U == u {
		return a.V
	}
	return a.U
}

// Adjacency indexes arcs by the vertices they can be left from.
type Adjacency struct {
	n    int
	arcs []Arc
	out  [][]int
}

func NewAdjacency(n int, arcs []Arc) *Adjacency {
	out := make([][]int, n)
	for i, a := range arcs {
		out[a.U] = append(out[a.U], i)
		if !a.Directed && a.V != a.U {
			out[a.V] = append(out[a.V], i)
		}
	}
	return &Adjacency{n: n, arcs: arcs, out: out}
}

func (a *Adjacency) Len() int { return a.n }

func (a *Adjacency) Arc(i int) Arc { return a.arcs[i] }

func (a *Adjacency) Arcs() []Arc { return a.arcs }

// Out returns the indices of arcs that can be traversed leaving u.
func (a *Adjacency) Out(u int) []int { return a.out[u] }
