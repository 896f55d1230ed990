// Package genetic implements the gene-vector placement search: disparity
// and elitism weighted selection, configurable crossover, bit-flip
// mutation, and uniqueness enforcement with a bounded repair loop.
package genetic

// Individual is one candidate in a generation: a gene vector (see
// network.DopantNetwork.Genes) and its evaluated error.
type Individual struct {
	Genes []uint16
	Error float64
}

func cloneGenes(g []uint16) []uint16 {
	return append([]uint16(nil), g...)
}
