package sim

// aqiBreakpoint maps a PM2.5 concentration sub-range onto an index sub-range.
type aqiBreakpoint struct {
	concLo, concHi   float64
	indexLo, indexHi float64
}

// US EPA style breakpoint table. Concentrations above the last breakpoint
// saturate at index 500.
var aqiBreakpoints = []aqiBreakpoint{
	{0, 35, 0, 50},
	{35, 75, 50, 100},
	{75, 115, 100, 150},
	{115, 150, 150, 200},
	{150, 250, 200, 300},
	{250, 350, 300, 500},
}

// AQIFromPM25 computes the air-quality index for a PM2.5 concentration in
// µg/m³ by piecewise-linear interpolation over the breakpoint table.
// Negative concentrations clamp to zero rather than error.
func AQIFromPM25(pm25 float64) int {
	if pm25 <= 0 {
		return 0
	}
	for _, bp := range aqiBreakpoints {
		if pm25 <= bp.concHi {
			scale := (bp.indexHi - bp.indexLo) / (bp.concHi - bp.concLo)
			return int(bp.indexLo + scale*(pm25-bp.concLo))
		}
	}
	return 500
}

// AQILevel names the qualitative band an index value falls into.
func AQILevel(aqi int) string {
	switch {
	case aqi <= 50:
		return "good"
	case aqi <= 100:
		return "moderate"
	case aqi <= 150:
		return "unhealthy_sensitive"
	case aqi <= 200:
		return "unhealthy"
	case aqi <= 300:
		return "very_unhealthy"
	default:
		return "hazardous"
	}
}
