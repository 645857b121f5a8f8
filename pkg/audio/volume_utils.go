package audio

import "math"

// volumeToPower maps a 0.0-1.0 linear volume onto beep's exponential
// volume scale (base 2). Unity gain is 0; silence is handled by the
// Silent flag before this matters.
func volumeToPower(vol float64) float64 {
	if vol <= 0.01 {
		return -10 // Silent
	}
	return math.Log2(vol)
}
