package fiber

// Params holds the geometric thresholds of the fiber test.
type Params struct {
	// Contours at or below this area are ignored entirely.
	MinContourArea float64

	MinArea, MaxArea             float64 // inclusive area band, px²
	MinElongation, MaxElongation float64 // inclusive minimum-rectangle side ratio band
	MinPARatio, MaxPARatio       float64 // inclusive perimeter/area band
	MinLongest                   float64 // exclusive lower bound on the longest point distance
}

// DefaultParams returns thresholds tuned for thin tea stalks and fibers
// photographed at the standard sample distance.
func DefaultParams() Params {
	return Params{
		MinContourArea: 300,
		MinArea:        300,
		MaxArea:        905,
		MinElongation:  1.1,
		MaxElongation:  5.5,
		MinPARatio:     0.20,
		MaxPARatio:     0.60,
		MinLongest:     75,
	}
}

// WithAreaRange returns a copy of params with a different fiber area band.
func (p Params) WithAreaRange(minArea, maxArea float64) Params {
	p.MinArea = minArea
	p.MaxArea = maxArea
	return p
}

// WithElongationRange returns a copy of params with a different elongation
// band.
func (p Params) WithElongationRange(lo, hi float64) Params {
	p.MinElongation = lo
	p.MaxElongation = hi
	return p
}

// WithMinContourArea returns a copy of params with a different noise floor.
func (p Params) WithMinContourArea(area float64) Params {
	p.MinContourArea = area
	return p
}
