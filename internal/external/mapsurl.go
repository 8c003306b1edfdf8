package external

import "strconv"

// GoogleMapsURL builds a maps search deep link for a WGS84 coordinate.
// https://developers.google.com/maps/documentation/urls/get-started
func GoogleMapsURL(lon, lat float64) string {
	return "https://www.google.com/maps/search/?api=1&query=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "%2C" + strconv.FormatFloat(lon, 'f', -1, 64)
}
