package services

import (
	"fmt"
	"math"

	"goagent-server/models"
)

// Approximate capital coordinates for Nigerian states where drives are
// commonly reported. Used only to annotate verification prompts with a
// plausibility hint, never to reject a submission.
var stateCapitals = map[string]models.Coordinates{
	"Lagos":       {Lat: 6.5244, Lng: 3.3792},
	"FCT - Abuja": {Lat: 9.0765, Lng: 7.3986},
	"Rivers":      {Lat: 4.8156, Lng: 7.0498},
	"Kano":        {Lat: 12.0022, Lng: 8.5920},
	"Oyo":         {Lat: 7.3775, Lng: 3.9470},
	"Kaduna":      {Lat: 10.5105, Lng: 7.4165},
	"Enugu":       {Lat: 6.4584, Lng: 7.5464},
	"Edo":         {Lat: 6.3350, Lng: 5.6037},
	"Delta":       {Lat: 6.2059, Lng: 6.6959},
	"Anambra":     {Lat: 6.2107, Lng: 7.0740},
	"Ogun":        {Lat: 7.1608, Lng: 3.3488},
	"Plateau":     {Lat: 9.8965, Lng: 8.8583},
}

// Nigeria's rough bounding box
const (
	nigeriaMinLat = 4.0
	nigeriaMaxLat = 14.0
	nigeriaMinLng = 2.5
	nigeriaMaxLng = 15.0
)

// CalculateDistance returns the great-circle distance in kilometers
// between two points using the Haversine formula.
func CalculateDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const R = 6371 // Earth's radius in kilometers

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

// WithinNigeria reports whether the capture point falls inside Nigeria's
// bounding box.
func WithinNigeria(c models.Coordinates) bool {
	return c.Lat >= nigeriaMinLat && c.Lat <= nigeriaMaxLat &&
		c.Lng >= nigeriaMinLng && c.Lng <= nigeriaMaxLng
}

// DescribeCaptureLocation renders a one-line plausibility note about the
// submission's GPS capture for the verification prompt.
func DescribeCaptureLocation(sub *models.DriveSubmission) string {
	coords := sub.GetCoordinates()
	if coords == nil {
		return "No GPS capture was recorded for this visit."
	}
	if !WithinNigeria(*coords) {
		return fmt.Sprintf("GPS capture (%.4f, %.4f) falls outside Nigeria.", coords.Lat, coords.Lng)
	}
	capital, ok := stateCapitals[sub.StateLocation]
	if !ok {
		return fmt.Sprintf("GPS capture (%.4f, %.4f) is within Nigeria; no reference point for state %q.",
			coords.Lat, coords.Lng, sub.StateLocation)
	}
	dist := CalculateDistance(coords.Lat, coords.Lng, capital.Lat, capital.Lng)
	return fmt.Sprintf("GPS capture (%.4f, %.4f) is %.0f km from the %s state capital.",
		coords.Lat, coords.Lng, dist, sub.StateLocation)
}
