package stroke

import "qualitea/pkg/colorutil"

// Band is an inclusive range of channel means.
type Band struct {
	Min, Max float64
}

// Contains reports whether v lies inside the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Params holds the eligibility and color thresholds of the brown test.
type Params struct {
	MinArea float64 // exclusive lower area bound, px²

	// The exclusive upper area bound is UpperFactor times the
	// UpperPercentile of all positive contour areas, or DefaultUpper times
	// UpperFactor when no contour has a positive area.
	UpperPercentile float64
	UpperFactor     float64
	DefaultUpper    float64

	R, G, B Band

	// OrderSlack allows R and G to undershoot the next channel slightly:
	// R > G-OrderSlack and G > B-OrderSlack.
	OrderSlack float64
	// MinSpread rejects achromatic particles: some pairwise channel
	// difference must exceed it.
	MinSpread float64
}

// DefaultParams returns thresholds for oxidized tea leaf particles.
func DefaultParams() Params {
	return Params{
		MinArea:         50,
		UpperPercentile: 90,
		UpperFactor:     1.5,
		DefaultUpper:    1000,
		R:               Band{Min: 90, Max: 240},
		G:               Band{Min: 50, Max: 210},
		B:               Band{Min: 20, Max: 160},
		OrderSlack:      10,
		MinSpread:       15,
	}
}

// WithBands returns a copy of params with different channel bands.
func (p Params) WithBands(r, g, b Band) Params {
	p.R, p.G, p.B = r, g, b
	return p
}

// WithMinSpread returns a copy of params with a different achromatic cutoff.
func (p Params) WithMinSpread(spread float64) Params {
	p.MinSpread = spread
	return p
}

// IsBrown reports whether a particle's mean color lies in the oxidized-leaf
// band.
func (p Params) IsBrown(c colorutil.RGB) bool {
	return p.R.Contains(c.R) && p.G.Contains(c.G) && p.B.Contains(c.B) &&
		c.R > c.G-p.OrderSlack && c.G > c.B-p.OrderSlack &&
		c.MaxSpread() > p.MinSpread
}
