package types

// LightCondition labels an illuminance bin. The declaration order is the
// rank order; classification is total and monotone in lux.
type LightCondition string

const (
	LightVeryDark   LightCondition = "VERY_DARK"
	LightDark       LightCondition = "DARK"
	LightDim        LightCondition = "DIM"
	LightNormal     LightCondition = "NORMAL"
	LightBright     LightCondition = "BRIGHT"
	LightVeryBright LightCondition = "VERY_BRIGHT"
	LightExtreme    LightCondition = "EXTREME"
)

var lightRanks = map[LightCondition]int{
	LightVeryDark:   0,
	LightDark:       1,
	LightDim:        2,
	LightNormal:     3,
	LightBright:     4,
	LightVeryBright: 5,
	LightExtreme:    6,
}

// Rank returns the bin's position on the dark→bright axis, -1 if unknown.
func (c LightCondition) Rank() int {
	if r, ok := lightRanks[c]; ok {
		return r
	}
	return -1
}

// ClassifyLux maps a lux value onto its condition bin. Bins are
// (lower, upper] with the first bin closed at 0.
func ClassifyLux(lux float32) LightCondition {
	switch {
	case lux <= 10:
		return LightVeryDark
	case lux <= 50:
		return LightDark
	case lux <= 200:
		return LightDim
	case lux <= 1000:
		return LightNormal
	case lux <= 5000:
		return LightBright
	case lux <= 10000:
		return LightVeryBright
	default:
		return LightExtreme
	}
}

// ProximityClass labels a range bin. UNKNOWN is reserved for hardware
// failure and never produced by classification.
type ProximityClass string

const (
	ProximityTooClose   ProximityClass = "TOO_CLOSE"
	ProximityVeryClose  ProximityClass = "VERY_CLOSE"
	ProximityClose      ProximityClass = "CLOSE"
	ProximityNear       ProximityClass = "NEAR"
	ProximityMedium     ProximityClass = "MEDIUM"
	ProximityFar        ProximityClass = "FAR"
	ProximityOutOfRange ProximityClass = "OUT_OF_RANGE"
	ProximityUnknown    ProximityClass = "UNKNOWN"
)

var proximityRanks = map[ProximityClass]int{
	ProximityTooClose:   0,
	ProximityVeryClose:  1,
	ProximityClose:      2,
	ProximityNear:       3,
	ProximityMedium:     4,
	ProximityFar:        5,
	ProximityOutOfRange: 6,
}

// Rank returns the bin's position on the near→far axis, -1 for UNKNOWN.
func (c ProximityClass) Rank() int {
	if r, ok := proximityRanks[c]; ok {
		return r
	}
	return -1
}

// ClassifyRange maps a distance in millimeters onto its proximity bin.
func ClassifyRange(mm uint16) ProximityClass {
	switch {
	case mm <= 10:
		return ProximityTooClose
	case mm <= 50:
		return ProximityVeryClose
	case mm <= 200:
		return ProximityClose
	case mm <= 500:
		return ProximityNear
	case mm <= 1000:
		return ProximityMedium
	case mm <= 2000:
		return ProximityFar
	default:
		return ProximityOutOfRange
	}
}
