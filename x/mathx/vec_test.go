package mathx

import "testing"

func almost(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 0.01
}

func TestMagnitude3(t *testing.T) {
	if got := Magnitude3(3, 4, 0); !almost(got, 5) {
		t.Fatalf("Magnitude3(3,4,0) = %v", got)
	}
	if got := Magnitude3(0, 0, 0); got != 0 {
		t.Fatalf("Magnitude3(0,0,0) = %v", got)
	}
}

func TestTiltDeg(t *testing.T) {
	// Flat: gravity entirely on z.
	if got := TiltDeg(0, 0, 9.81); !almost(got, 0) {
		t.Fatalf("flat tilt = %v", got)
	}
	// On edge: gravity entirely on x.
	if got := TiltDeg(9.81, 0, 0); !almost(got, 90) {
		t.Fatalf("edge tilt = %v", got)
	}
	// 45 degrees.
	if got := TiltDeg(1, 0, 1); !almost(got, 45) {
		t.Fatalf("45 tilt = %v", got)
	}
	// Zero vector is defined as 0.
	if got := TiltDeg(0, 0, 0); got != 0 {
		t.Fatalf("zero tilt = %v", got)
	}
}
