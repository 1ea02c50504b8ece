package types

// ---- Measurement kinds ----

type Kind string

const (
	KindIlluminance  Kind = "illuminance"
	KindAtmosphere   Kind = "atmosphere"
	KindClock        Kind = "clock"
	KindRange        Kind = "range"
	KindAcceleration Kind = "acceleration"
)

// Units carried by measurements. Fixed; the core never converts.
const (
	UnitTemperature   = "°C"
	UnitHumidity      = "%"
	UnitPressure      = "hPa"
	UnitLuminosity    = "lux"
	UnitDistance      = "mm"
	UnitAcceleration  = "m/s²"
	UnitMagneticField = "µT"
)

// Measurement is the tagged value a sensor read produces. Concrete variants
// below; consumers switch on Kind() (or type-switch) only after the read has
// already succeeded.
type Measurement interface {
	Kind() Kind
}

// Illuminance is a BH1750 reading.
type Illuminance struct {
	Lux       float32        `json:"lux"`
	Condition LightCondition `json:"condition"`
}

func (Illuminance) Kind() Kind { return KindIlluminance }

// Atmosphere is a BME280/BME680 triple.
type Atmosphere struct {
	TemperatureC float32 `json:"temperature"`
	HumidityPct  float32 `json:"humidity"`
	PressureHPa  float32 `json:"pressure"`
}

func (Atmosphere) Kind() Kind { return KindAtmosphere }

// Clock is the RTC's view of the current instant, ISO-8601 UTC
// (YYYY-MM-DDTHH:MM:SSZ).
type Clock struct {
	ISO8601 string `json:"datetime"`
}

func (Clock) Kind() Kind { return KindClock }

// Range is a time-of-flight distance reading. On hardware failure
// DistanceMM is 65535 and Status is UNKNOWN.
type Range struct {
	DistanceMM uint16         `json:"distance_mm"`
	Status     ProximityClass `json:"status"`
}

func (Range) Kind() Kind { return KindRange }

// Acceleration is a three-axis vector reading with derived magnitude and
// tilt (degrees from horizontal). The accelerometer reports m/s²; the
// magnetometer reuses the same shape with µT components, tilt supplied by its
// companion accelerometer.
type Acceleration struct {
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	Z         float32 `json:"z"`
	Magnitude float32 `json:"magnitude"`
	Tilt      float32 `json:"tilt"`
}

func (Acceleration) Kind() Kind { return KindAcceleration }
