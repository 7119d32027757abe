package market

import "strings"

// mspPerQuintal is the notified minimum support price (sugarcane: FRP) in INR per quintal.
var mspPerQuintal = map[string]float64{
	"rice":      2183,
	"wheat":     2275,
	"maize":     2090,
	"onion":     1500,
	"tomato":    1200,
	"potato":    900,
	"cotton":    6620,
	"soybean":   4600,
	"sugarcane": 315,
	"gram":      5440,
	"tur":       7000,
	"moong":     8558,
}

// MSP returns the support price for a crop in INR per ton, keyed by the first
// segment of the crop id.
func MSP(cropID string) (float64, bool) {
	key := strings.ToLower(strings.TrimSpace(cropID))
	if i := strings.IndexByte(key, '_'); i >= 0 {
		key = key[:i]
	}
	perQuintal, ok := mspPerQuintal[key]
	if !ok {
		return 0, false
	}
	return perQuintal * 10, true
}
