// Package algo holds the graph primitives used by partitioning and routing:
// undirected components, Dijkstra shortest paths, minimum-weight perfect
// matching, Hierholzer trail extraction, weighted k-means and convex hulls.
//
// All functions operate on dense vertex indices 0..n-1 and a slice of Arcs.
// Callers translate their own ids before and after.
package algo
