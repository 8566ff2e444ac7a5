package geofence

// Bounds is a rectangular bounding box in decimal degrees.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains reports whether the coordinate falls inside the box.
// Comparisons are inclusive: a point exactly on any edge is inside.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.South && lat <= b.North &&
		lon >= b.West && lon <= b.East
}
