// Package epoch implements the time-scale collaborator the specification
// marks as external (C11): a value carrying TDB seconds past J2000
// internally, with conversions to/from TAI, UTC, TT, and ET. The
// retrieval pack ships no Go NAIF-time library, so this package
// reimplements the teacher's timescale package contract (only its
// _test.go file survived retrieval) as a proper value type.
package epoch

import "time"

// Scale names the time scales this package converts between (via the
// From*/As* functions, which do not take a Scale argument) — Epoch itself
// always stores TDB seconds past J2000.
type Scale int

const (
	TDB Scale = iota
	ET        // ephemeris time: identical to TDB for this module's purposes
	TAI
	UTC
	TT
)

// Epoch is an instant stored canonically as TDB seconds past the J2000
// epoch (2000-01-01T12:00:00 TDB); it does not record the scale it was
// built from.
type Epoch struct {
	tdbSeconds float64
}

// J2000TDB is the zero instant: 2000-01-01 12:00:00 TDB.
var J2000TDB = Epoch{tdbSeconds: 0}

// FromTDBSeconds builds an Epoch directly from TDB seconds past J2000 —
// the representation every DAF payload uses on disk.
func FromTDBSeconds(s float64) Epoch { return Epoch{tdbSeconds: s} }

// TDBSeconds returns the TDB seconds past J2000, the representation DAF
// payloads store on disk.
func (e Epoch) TDBSeconds() float64 { return e.tdbSeconds }

// Add returns e shifted by the given number of seconds.
func (e Epoch) Add(seconds float64) Epoch { return Epoch{tdbSeconds: e.tdbSeconds + seconds} }

// Sub returns the difference e - other, in seconds.
func (e Epoch) Sub(other Epoch) float64 { return e.tdbSeconds - other.tdbSeconds }

// Before reports whether e occurs strictly before other.
func (e Epoch) Before(other Epoch) bool { return e.tdbSeconds < other.tdbSeconds }

// After reports whether e occurs strictly after other.
func (e Epoch) After(other Epoch) bool { return e.tdbSeconds > other.tdbSeconds }

// jdToTDBSeconds converts a TDB Julian date to TDB seconds past J2000.
func jdToTDBSeconds(jdTDB float64) float64 {
	return (jdTDB - j2000JD) * SecPerDay
}

// tdbSecondsToJD converts TDB seconds past J2000 to a TDB Julian date.
func tdbSecondsToJD(s float64) float64 {
	return j2000JD + s/SecPerDay
}

// FromUTC builds an Epoch from a UTC Julian date.
func FromUTC(jdUTC float64) Epoch {
	jdTT := UTCToTT(jdUTC)
	jdTDB := jdTT + TDBMinusTT(jdTT)/SecPerDay
	return Epoch{tdbSeconds: jdToTDBSeconds(jdTDB)}
}

// FromTT builds an Epoch from a TT Julian date.
func FromTT(jdTT float64) Epoch {
	jdTDB := jdTT + TDBMinusTT(jdTT)/SecPerDay
	return Epoch{tdbSeconds: jdToTDBSeconds(jdTDB)}
}

// FromTAI builds an Epoch from a TAI Julian date (TT = TAI + 32.184s).
func FromTAI(jdTAI float64) Epoch {
	return FromTT(jdTAI + 32.184/SecPerDay)
}

// FromTime builds an Epoch from a UTC time.Time.
func FromTime(t time.Time) Epoch {
	return FromUTC(TimeToJDUTC(t))
}

// TimeToJDUTC converts a UTC time.Time to a UTC Julian date.
func TimeToJDUTC(t time.Time) float64 {
	t = t.UTC()
	// Julian date of the Unix epoch, 1970-01-01T00:00:00Z.
	const unixEpochJD = 2440587.5
	return unixEpochJD + float64(t.Unix())/SecPerDay + float64(t.Nanosecond())/1e9/SecPerDay
}

// AsUTC returns the UTC Julian date for e.
func (e Epoch) AsUTC() float64 {
	jdTDB := tdbSecondsToJD(e.tdbSeconds)
	jdTT := jdTDB - TDBMinusTT(jdTDB)/SecPerDay
	// Invert UTCToTT: jdTT = jdUTC + (leap+32.184)/SecPerDay. Leap-second
	// offset is piecewise constant, so one fixed-point pass suffices.
	jdUTC := jdTT - (LeapSecondOffset(jdTT)+32.184)/SecPerDay
	jdUTC = jdTT - (LeapSecondOffset(jdUTC)+32.184)/SecPerDay
	return jdUTC
}

// AsTT returns the TT Julian date for e.
func (e Epoch) AsTT() float64 {
	jdTDB := tdbSecondsToJD(e.tdbSeconds)
	return jdTDB - TDBMinusTT(jdTDB)/SecPerDay
}

// AsTDBJulianDate returns the TDB Julian date for e.
func (e Epoch) AsTDBJulianDate() float64 {
	return tdbSecondsToJD(e.tdbSeconds)
}

// AsTime returns the UTC time.Time for e.
func (e Epoch) AsTime() time.Time {
	jdUTC := e.AsUTC()
	const unixEpochJD = 2440587.5
	secs := (jdUTC - unixEpochJD) * SecPerDay
	whole := int64(secs)
	frac := secs - float64(whole)
	return time.Unix(whole, int64(frac*1e9)).UTC()
}
