package navigation

import (
	"math"
	"time"
)

const (
	// HistorySize is the number of center orientation samples kept during a drag.
	HistorySize = 4
	// MaxSampleAge is the oldest sample age that still counts towards the release velocity.
	MaxSampleAge = 50 * time.Millisecond
	// MaxSpeed bounds the fling's angular speeds in radians per second.
	MaxSpeed = 4.0
)

// Sample is a center orientation recorded at a monotonic time.
type Sample struct {
	Time     time.Time
	Position SphericalPoint
}

// ScreenMotion is an inertial fling: the view glides from Origin with the given angular speeds, decelerating
// along a quarter ellipse until it stops exactly at End.
type ScreenMotion struct {
	Start  time.Time
	End    time.Time
	Origin SphericalPoint
	// AzimuthSpeed and PolarSpeed are in radians per second, each within [-MaxSpeed, MaxSpeed].
	AzimuthSpeed float64
	PolarSpeed   float64
}

// EstimateMotion derives a fling from the drag history at release time.
// The velocity is measured between the oldest sample younger than MaxSampleAge and the newest sample. No motion
// is produced when no sample is recent enough, when the samples share a timestamp, or when the view did not move.
//
// Parameters:
//   - history: center orientations recorded during the drag, oldest first
//   - now: the release time
//
// Returns:
//   - ScreenMotion: the fling starting at now
//   - bool: false if the release should simply stop the view
func EstimateMotion(history *RingBuffer[Sample], now time.Time) (ScreenMotion, bool) {
	latest, ok := history.Last()
	if !ok {
		return ScreenMotion{}, false
	}

	var (
		found Sample
		have  bool
	)
	for _, s := range history.All() {
		if now.Sub(s.Time) < MaxSampleAge {
			found, have = s, true
			break
		}
	}
	if !have {
		return ScreenMotion{}, false
	}

	dt := latest.Time.Sub(found.Time).Seconds()
	if dt <= 0 {
		return ScreenMotion{}, false
	}

	azimuthSpeed := clamp(WrapAzimuth(latest.Position.Azimuth-found.Position.Azimuth)/dt, -MaxSpeed, MaxSpeed)
	polarSpeed := clamp((latest.Position.Polar-found.Position.Polar)/dt, -MaxSpeed, MaxSpeed)

	radius := motionRadius(azimuthSpeed, polarSpeed)
	if radius == 0 {
		return ScreenMotion{}, false
	}

	return ScreenMotion{
		Start:        now,
		End:          now.Add(time.Duration(radius * float64(time.Second))),
		Origin:       latest.Position,
		AzimuthSpeed: azimuthSpeed,
		PolarSpeed:   polarSpeed,
	}, true
}

// Duration returns how long the fling lasts.
func (m ScreenMotion) Duration() time.Duration {
	return m.End.Sub(m.Start)
}

// PositionAt returns the center orientation at time now.
//
// The displacement follows the upper-left quarter of an ellipse centered at (radius, 0) with semi-axes radius
// and radius/4, where radius is the square root of the larger speed: fast at release, flat at End.
//
// Parameters:
//   - now: the current time
//
// Returns:
//   - SphericalPoint: the center orientation
//   - bool: false once now has reached End and the motion has expired
func (m ScreenMotion) PositionAt(now time.Time) (SphericalPoint, bool) {
	if !now.Before(m.End) {
		return SphericalPoint{}, false
	}
	elapsed := max(now.Sub(m.Start).Seconds(), 0)
	radius := motionRadius(m.AzimuthSpeed, m.PolarSpeed)
	factor := 0.25 * math.Sqrt(max(elapsed*(2*radius-elapsed), 0))
	return NewSpherePoint(
		m.Origin.Azimuth+m.AzimuthSpeed*factor,
		m.Origin.Polar+m.PolarSpeed*factor,
	), true
}

// motionRadius is both the fling duration in seconds and the ellipse's horizontal semi-axis.
func motionRadius(azimuthSpeed, polarSpeed float64) float64 {
	return math.Sqrt(max(math.Abs(azimuthSpeed), math.Abs(polarSpeed)))
}
