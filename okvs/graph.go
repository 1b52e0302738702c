//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

// Graph implements the cuckoo graph: its vertices are the sparse
// storage positions and each key is an edge between its two sparse
// positions. Edges are identified by their index in Edges.
type Graph struct {
	Vertices int
	Edges    [][2]int

	// Adjacency in compressed form: the edges incident to vertex v
	// are adj[offsets[v]:offsets[v+1]]. A self-loop is listed once.
	offsets []int
	adj     []int
}

// NewGraph creates a graph with the vertices and edges.
func NewGraph(vertices int, edges [][2]int) *Graph {
	offsets := make([]int, vertices+1)
	for _, e := range edges {
		offsets[e[0]+1]++
		if e[1] != e[0] {
			offsets[e[1]+1]++
		}
	}
	for v := 0; v < vertices; v++ {
		offsets[v+1] += offsets[v]
	}
	adj := make([]int, offsets[vertices])
	pos := make([]int, vertices)
	copy(pos, offsets[:vertices])

	for idx, e := range edges {
		adj[pos[e[0]]] = idx
		pos[e[0]]++
		if e[1] != e[0] {
			adj[pos[e[1]]] = idx
			pos[e[1]]++
		}
	}

	return &Graph{
		Vertices: vertices,
		Edges:    edges,
		offsets:  offsets,
		adj:      adj,
	}
}

// Incident returns the edges incident to the vertex.
func (g *Graph) Incident(v int) []int {
	return g.adj[g.offsets[v]:g.offsets[v+1]]
}

// IsLoop tests if the edge is a self-loop.
func (g *Graph) IsLoop(e int) bool {
	return g.Edges[e][0] == g.Edges[e][1]
}

// Degrees returns the vertex degrees. A self-loop adds 2 to the
// degree of its vertex.
func (g *Graph) Degrees() []int {
	degree := make([]int, g.Vertices)
	for _, e := range g.Edges {
		degree[e[0]]++
		degree[e[1]]++
	}
	return degree
}
