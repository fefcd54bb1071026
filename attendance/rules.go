package attendance

import (
	"errors"
	"math"
	"time"
)

const (
	// MaxAccuracyMeters is the largest acceptable GPS error radius.
	MaxAccuracyMeters = 100.0
	// CheckInWindow is the symmetric window around the scheduled start
	// inside which a clock-in is accepted.
	CheckInWindow = 30 * time.Minute
	// GeofenceRadiusMeters is the circular boundary around the task site.
	GeofenceRadiusMeters = 500.0
	// EarthRadiusMeters is the mean earth radius used by the haversine formula.
	EarthRadiusMeters = 6371000.0
)

// Each precondition failure is its own error so clients get a
// distinguishable reason and can correct the right thing.
var (
	ErrImpreciseLocation  = errors.New("location reading is not precise enough")
	ErrOutsideWindow      = errors.New("outside the check-in window")
	ErrNoSiteLocation     = errors.New("task has no assigned location")
	ErrTooFarFromSite     = errors.New("too far from the task site")
	ErrAlreadyClockedIn   = errors.New("already clocked in")
	ErrNotClockedIn       = errors.New("not clocked in")
	ErrAlreadyClockedOut  = errors.New("already clocked out")
	ErrMissingWorkSummary = errors.New("work summary is required")
	ErrNotAssignee        = errors.New("task is not assigned to you")
	ErrTaskClosed         = errors.New("task is cancelled or completed")
)

// Location is a client-supplied position sample. Accuracy is the reported
// error radius in meters; nil means the device did not report one.
type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  *float64
}

// HaversineMeters returns the great-circle distance between two points on a
// spherical-earth approximation.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// WithinCheckInWindow reports whether now falls inside the symmetric
// check-in window around the scheduled start.
func WithinCheckInWindow(now, scheduledStart time.Time) bool {
	diff := now.Sub(scheduledStart)
	return diff >= -CheckInWindow && diff <= CheckInWindow
}

// HoursBetween returns the elapsed hours between in and out, rounded to two
// decimals.
func HoursBetween(in, out time.Time) float64 {
	hours := out.Sub(in).Hours()
	return math.Round(hours*100) / 100
}
