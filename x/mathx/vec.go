package mathx

import "math"

// Magnitude3 returns the Euclidean length of a three-axis vector.
func Magnitude3(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(x)*float64(x) + float64(y)*float64(y) + float64(z)*float64(z)))
}

// TiltDeg derives the tilt from horizontal, in degrees [0, 90], from a
// gravity vector. A device lying flat (gravity all on z) tilts 0°; standing
// on edge tilts 90°. A zero vector yields 0.
func TiltDeg(x, y, z float32) float32 {
	m := Magnitude3(x, y, z)
	if m == 0 {
		return 0
	}
	c := Clamp(float64(Abs32(z))/float64(m), 0, 1)
	return float32(math.Acos(c) * 180 / math.Pi)
}

// Abs32 is Abs for float32 (the generic Abs covers signed integers only).
func Abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
