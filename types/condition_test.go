package types

import "testing"

func TestClassifyLuxBins(t *testing.T) {
	cases := []struct {
		lux  float32
		want LightCondition
	}{
		{0, LightVeryDark},
		{10, LightVeryDark}, // bins are (lower, upper]
		{10.1, LightDark},
		{50, LightDark},
		{50.1, LightDim},
		{200, LightDim},
		{200.1, LightNormal},
		{400, LightNormal},
		{1000, LightNormal},
		{1000.1, LightBright},
		{5000, LightBright},
		{5000.1, LightVeryBright},
		{10000, LightVeryBright},
		{10000.1, LightExtreme},
		{120000, LightExtreme},
	}
	for _, c := range cases {
		if got := ClassifyLux(c.lux); got != c.want {
			t.Errorf("ClassifyLux(%v) = %s, want %s", c.lux, got, c.want)
		}
	}
}

func TestClassifyLuxMonotone(t *testing.T) {
	last := -1
	for _, lux := range []float32{0, 5, 10, 11, 49, 51, 199, 201, 999, 1001, 4999, 5001, 9999, 10001, 50000} {
		r := ClassifyLux(lux).Rank()
		if r < 0 {
			t.Fatalf("ClassifyLux(%v) has no rank", lux)
		}
		if r < last {
			t.Fatalf("rank dropped at %v lux: %d after %d", lux, r, last)
		}
		last = r
	}
}

func TestClassifyRangeBins(t *testing.T) {
	cases := []struct {
		mm   uint16
		want ProximityClass
	}{
		{0, ProximityTooClose},
		{7, ProximityTooClose},
		{10, ProximityTooClose},
		{11, ProximityVeryClose},
		{50, ProximityVeryClose},
		{51, ProximityClose},
		{200, ProximityClose},
		{201, ProximityNear},
		{500, ProximityNear},
		{501, ProximityMedium},
		{842, ProximityMedium},
		{1000, ProximityMedium},
		{1001, ProximityFar},
		{2000, ProximityFar},
		{2001, ProximityOutOfRange},
		{2500, ProximityOutOfRange},
		{65534, ProximityOutOfRange},
	}
	for _, c := range cases {
		if got := ClassifyRange(c.mm); got != c.want {
			t.Errorf("ClassifyRange(%d) = %s, want %s", c.mm, got, c.want)
		}
	}
}

func TestClassifyRangeMonotone(t *testing.T) {
	last := -1
	for _, mm := range []uint16{0, 1, 10, 11, 49, 51, 199, 201, 499, 501, 999, 1001, 1999, 2001, 10000} {
		r := ClassifyRange(mm).Rank()
		if r < 0 {
			t.Fatalf("ClassifyRange(%d) has no rank", mm)
		}
		if r < last {
			t.Fatalf("rank dropped at %d mm: %d after %d", mm, r, last)
		}
		last = r
	}
}

// Classification never produces UNKNOWN; it is reserved for hardware failure.
func TestClassifyRangeNeverUnknown(t *testing.T) {
	for _, mm := range []uint16{0, 10, 100, 1000, 65535} {
		if ClassifyRange(mm) == ProximityUnknown {
			t.Fatalf("ClassifyRange(%d) = UNKNOWN", mm)
		}
	}
}
