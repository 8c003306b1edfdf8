package geoindex

import "math"

// DensifyLine resamples a polyline into evenly spaced vertices so that a
// nearest-vertex query approximates a nearest-line query to within the
// spacing. The result always includes both endpoints; a line shorter than
// the spacing collapses to its endpoints.
func DensifyLine(line []Point, spacing float64) []Point {
	if len(line) < 2 || spacing <= 0 {
		return line
	}

	total := 0.0
	for i := 1; i < len(line); i++ {
		total += distance(line[i-1], line[i])
	}
	segments := int(math.Round(total / spacing))
	if segments == 0 {
		segments = 1
	}

	out := make([]Point, 0, segments+1)
	for s := 0; s <= segments; s++ {
		out = append(out, interpolate(line, total*float64(s)/float64(segments)))
	}
	return out
}

// interpolate walks the polyline to the point at the given distance along it.
func interpolate(line []Point, at float64) Point {
	if at <= 0 {
		return line[0]
	}
	walked := 0.0
	for i := 1; i < len(line); i++ {
		seg := distance(line[i-1], line[i])
		if walked+seg >= at && seg > 0 {
			f := (at - walked) / seg
			return Point{
				Easting:  line[i-1].Easting + f*(line[i].Easting-line[i-1].Easting),
				Northing: line[i-1].Northing + f*(line[i].Northing-line[i-1].Northing),
			}
		}
		walked += seg
	}
	return line[len(line)-1]
}
