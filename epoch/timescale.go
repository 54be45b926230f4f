package epoch

import "math"

// SecPerDay is the number of SI seconds in a day.
const SecPerDay = 86400.0

const j2000JD = 2451545.0

// leapSecondTable holds (jdUTC, offsetSeconds) steps at which TAI-UTC
// changed, the last entry being the most recent known leap second. Values
// before the first entry return the first entry's offset; values after the
// last entry return the last entry's offset (no announced future leap
// seconds are assumed).
var leapSecondTable = []struct {
	jdUTC  float64
	offset float64
}{
	{2441317.5, 10}, // 1972-01-01
	{2441499.5, 11}, // 1972-07-01
	{2441683.5, 12},
	{2442048.5, 13},
	{2442413.5, 14},
	{2442778.5, 15},
	{2443144.5, 16},
	{2443509.5, 17},
	{2443874.5, 18},
	{2444239.5, 19},
	{2444786.5, 20},
	{2445151.5, 21},
	{2445516.5, 22},
	{2446247.5, 23},
	{2447161.5, 24},
	{2447892.5, 25},
	{2448257.5, 26},
	{2448804.5, 27},
	{2449169.5, 28},
	{2449534.5, 29},
	{2450083.5, 30},
	{2450630.5, 31},
	{2451179.5, 32},
	{2453736.5, 33},
	{2454832.5, 34},
	{2456109.5, 35},
	{2457204.5, 36},
	{2457754.5, 37}, // 2017-01-01, latest known
}

// LeapSecondOffset returns TAI-UTC in seconds for the given UTC Julian date.
func LeapSecondOffset(jdUTC float64) float64 {
	if jdUTC < leapSecondTable[0].jdUTC {
		return leapSecondTable[0].offset
	}
	offset := leapSecondTable[len(leapSecondTable)-1].offset
	for _, e := range leapSecondTable {
		if jdUTC >= e.jdUTC {
			offset = e.offset
		} else {
			break
		}
	}
	return offset
}

// deltaTTable holds (year, deltaT seconds) historical/predicted ΔT=TT-UT1
// samples at 20-year resolution through 2000, 10-year to 2020 and 50-year
// (2050 then every 50 years) to 2200, from the standard
// published tables (Espenak & Meeus / IERS), used with linear interpolation.
var deltaTTable = []struct {
	year float64
	dt   float64
}{
	{1800, 13.7},
	{1820, 11.9},
	{1840, 6.7},
	{1860, 7.6},
	{1880, -5.3},
	{1900, -2.8},
	{1920, 21.2},
	{1940, 24.3},
	{1960, 33.2},
	{1980, 50.5},
	{2000, 63.829},
	{2010, 66.1},
	{2020, 69.4},
	{2050, 93.0},
	{2100, 202.0},
	{2150, 330.0},
	{2200, 468.0},
}

// DeltaT returns TT-UT1 in seconds for a given decimal year, clamped to the
// first/last table entries and linearly interpolated between samples.
func DeltaT(year float64) float64 {
	n := len(deltaTTable)
	if year <= deltaTTable[0].year {
		return deltaTTable[0].dt
	}
	if year >= deltaTTable[n-1].year {
		return deltaTTable[n-1].dt
	}
	for i := 0; i < n-1; i++ {
		lo, hi := deltaTTable[i], deltaTTable[i+1]
		if year >= lo.year && year <= hi.year {
			frac := (year - lo.year) / (hi.year - lo.year)
			return lo.dt + frac*(hi.dt-lo.dt)
		}
	}
	return deltaTTable[n-1].dt
}

// UTCToTT converts a UTC Julian date to the TT scale: TT = UTC + (leap
// seconds + 32.184s), the fixed TAI-TT offset.
func UTCToTT(jdUTC float64) float64 {
	offset := LeapSecondOffset(jdUTC) + 32.184
	return jdUTC + offset/SecPerDay
}

// TTToUT1 converts a TT Julian date to UT1 using the DeltaT table.
func TTToUT1(jdTT float64) float64 {
	year := 2000.0 + (jdTT-j2000JD)/365.25
	dt := DeltaT(year)
	return jdTT - dt/SecPerDay
}

// TDBMinusTT returns TDB-TT in seconds for a given TT (or TDB, to the
// precision this periodic approximation needs) Julian date. Fairhead &
// Bretagnon approximation, USNO Circular 179 eq. 2.6.
func TDBMinusTT(jd float64) float64 {
	t := (jd - j2000JD) / 36525.0
	return 0.001657*math.Sin(628.3076*t+6.2401) +
		0.000022*math.Sin(575.3385*t+4.2970) +
		0.000014*math.Sin(1256.6152*t+6.1969) +
		0.000005*math.Sin(606.9777*t+4.0212) +
		0.000005*math.Sin(52.9691*t+0.4444) +
		0.000002*math.Sin(21.3299*t+5.5431) +
		0.000010*t*math.Sin(628.3076*t+4.2490)
}
