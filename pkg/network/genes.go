package network

import (
	"fmt"
	"math"

	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/simerr"
)

// genesPerSite is the number of uint16 genes each acceptor or donor
// contributes: one for X, one for Y. Z is not searched over; placement
// search operates on 2D slabs, matching the genetic algorithm's gene
// vector in the reference implementation.
const genesPerSite = 2

// Genes packs every acceptor then every donor position into a flat uint16
// vector, quantizing each coordinate to round(coord/extent*65535) so that
// crossover and mutation operate on a discrete, bounded alphabet.
func (net *DopantNetwork) Genes() []uint16 {
	genes := make([]uint16, 0, (net.N+net.M)*genesPerSite)
	for _, a := range net.Acceptors {
		genes = append(genes, net.packCoord(a.Pos.X, net.Dims.X), net.packCoord(a.Pos.Y, net.Dims.Y))
	}
	for _, d := range net.Donors {
		genes = append(genes, net.packCoord(d.Pos.X, net.Dims.X), net.packCoord(d.Pos.Y, net.Dims.Y))
	}
	return genes
}

// FromGenes unpacks a gene vector produced by Genes back into acceptor and
// donor positions, then marks the position cache dirty so the next
// UpdateV/Reinitialize recomputes the electrostatic landscape for the new
// layout.
func (net *DopantNetwork) FromGenes(genes []uint16) error {
	want := (net.N + net.M) * genesPerSite
	if len(genes) != want {
		return simerr.New(simerr.Configuration, "FromGenes",
			fmt.Errorf("expected %d genes, got %d", want, len(genes)))
	}

	i := 0
	for a := range net.Acceptors {
		net.Acceptors[a].Pos.X = net.unpackCoord(genes[i], net.Dims.X)
		net.Acceptors[a].Pos.Y = net.unpackCoord(genes[i+1], net.Dims.Y)
		i += genesPerSite
	}
	for d := range net.Donors {
		net.Donors[d].Pos.X = net.unpackCoord(genes[i], net.Dims.X)
		net.Donors[d].Pos.Y = net.unpackCoord(genes[i+1], net.Dims.Y)
		i += genesPerSite
	}

	net.dirty |= dirtyPosition
	return nil
}

// packCoord quantizes a coordinate in [0, extent) to a uint16 grid index.
// Extents of zero (unused axes) always pack to zero.
func (net *DopantNetwork) packCoord(v, extent float64) uint16 {
	if extent == 0 {
		return 0
	}
	const maxGene = float64(^uint16(0))
	frac := v / extent
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return uint16(math.Round(frac * maxGene))
}

func (net *DopantNetwork) unpackCoord(g uint16, extent float64) float64 {
	if extent == 0 {
		return 0
	}
	const maxGene = float64(^uint16(0))
	return float64(g) / maxGene * extent
}

// GeneBounds returns the x and y extents that unpacked gene coordinates
// span: each lies in [0, extent], both ends inclusive.
func GeneBounds(dims geometry.Extents) (x, y float64) {
	return dims.X, dims.Y
}
