package osgrid

import "fmt"

// Letter tables for the 500 km (major) and 100 km (minor) grid squares,
// indexed [x][y] in grid-square units.
var majorLetters = map[int]map[int]byte{
	0: {0: 'S', 1: 'N', 2: 'H'},
	1: {0: 'T', 1: 'O'},
}

var minorLetters = [5][5]byte{
	{'V', 'Q', 'L', 'F', 'A'},
	{'W', 'R', 'M', 'G', 'B'},
	{'X', 'S', 'N', 'H', 'C'},
	{'Y', 'T', 'O', 'J', 'D'},
	{'Z', 'U', 'P', 'K', 'E'},
}

// digitWidth maps a supported resolution in meters to the number of digits
// emitted per axis.
var digitWidth = map[int]int{
	100000: 0,
	10000:  1,
	1000:   2,
	100:    3,
	10:     4,
	1:      5,
}

// GridReference encodes an easting/northing as an OS grid reference at the
// given resolution in meters (1 gives the familiar five-digit-per-axis form,
// e.g. "SH 67958 46317"). ErrOutOfBounds is returned when the point falls
// outside the lettered grid squares or the resolution is unsupported.
func GridReference(easting, northing float64, resolution int) (string, error) {
	width, ok := digitWidth[resolution]
	if !ok {
		return "", fmt.Errorf("%w: unsupported resolution %dm", ErrOutOfBounds, resolution)
	}
	if easting < 0 || northing < 0 {
		return "", fmt.Errorf("%w: easting %.0f northing %.0f", ErrOutOfBounds, easting, northing)
	}

	e := int(easting)
	n := int(northing)

	row, ok := majorLetters[e/500000]
	if !ok {
		return "", fmt.Errorf("%w: easting %.0f northing %.0f", ErrOutOfBounds, easting, northing)
	}
	major, ok := row[n/500000]
	if !ok {
		return "", fmt.Errorf("%w: easting %.0f northing %.0f", ErrOutOfBounds, easting, northing)
	}

	minor := minorLetters[(e%500000)/100000][(n%500000)/100000]

	if width == 0 {
		return fmt.Sprintf("%c%c", major, minor), nil
	}
	refX := (e % 100000) / resolution
	refY := (n % 100000) / resolution
	return fmt.Sprintf("%c%c %0*d %0*d", major, minor, width, refX, width, refY), nil
}
