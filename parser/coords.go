package parser

// ValidateCoordinates corrects latitude/longitude pairs that arrive swapped.
// Some upstream feeds (HouseSigma among them) write the longitude into the
// latitude slot.
func ValidateCoordinates(lat, lng float64) (float64, float64) {
	// A latitude outside [-90, 90] can only be a longitude.
	if lat < -90 || lat > 90 {
		return lng, lat
	}

	// North-American heuristic: latitudes are positive (roughly 20-70),
	// longitudes negative (roughly -50 to -170). The opposite pattern in
	// those bands means the pair is swapped.
	if lat < 0 && lng > 0 {
		if lat >= -180 && lat <= -50 && lng >= 20 && lng <= 70 {
			return lng, lat
		}
	}

	return lat, lng
}
