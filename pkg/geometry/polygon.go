package geometry

import (
	"image"
	"math"
	"sort"
)

// ConvexHull computes the convex hull of a set of points using Graham scan.
// Returns the points forming the convex hull in counter-clockwise order.
func ConvexHull(points []Point2D) []Point2D {
	if len(points) < 3 {
		return points
	}

	// Make a copy to avoid modifying the input
	pts := make([]Point2D, len(points))
	copy(pts, points)

	// Find the point with lowest y (and leftmost if tied)
	lowest := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[lowest].Y ||
			(pts[i].Y == pts[lowest].Y && pts[i].X < pts[lowest].X) {
			lowest = i
		}
	}
	pts[0], pts[lowest] = pts[lowest], pts[0]
	pivot := pts[0]

	rest := pts[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		cross := crossProduct(pivot, rest[i], rest[j])
		if cross != 0 {
			return cross > 0
		}
		return distSq(pivot, rest[i]) < distSq(pivot, rest[j])
	})

	hull := []Point2D{pivot}
	for _, p := range rest {
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull
}

// PolygonArea returns the unsigned shoelace area of a closed polygon.
func PolygonArea(polygon []Point2D) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return math.Abs(sum) / 2
}

// LongestDistance returns the largest Euclidean distance between any two
// contour points. The scan is quadratic in the point count; simplified
// particle outlines carry tens of points, so no hull-based diameter is used.
func LongestDistance(contour []image.Point) float64 {
	var longest float64
	for i := 0; i < len(contour); i++ {
		for j := i + 1; j < len(contour); j++ {
			dx := float64(contour[i].X - contour[j].X)
			dy := float64(contour[i].Y - contour[j].Y)
			if d := math.Sqrt(dx*dx + dy*dy); d > longest {
				longest = d
			}
		}
	}
	return longest
}

// TouchesBorder reports whether any point lies on the first or last valid
// row or column of a width x height image.
func TouchesBorder(contour []image.Point, width, height int) bool {
	for _, p := range contour {
		if p.X <= 0 || p.X >= width-1 || p.Y <= 0 || p.Y >= height-1 {
			return true
		}
	}
	return false
}

// NearBorder reports whether any point lies within margin pixels of an image edge.
func NearBorder(contour []image.Point, width, height, margin int) bool {
	for _, p := range contour {
		if p.X < margin || p.Y < margin || p.X > width-margin || p.Y > height-margin {
			return true
		}
	}
	return false
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// distSq computes the squared distance between two points.
func distSq(a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}
