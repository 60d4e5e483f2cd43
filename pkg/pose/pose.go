// Package pose computes a preview skeleton for the commanded arm state.
//
// The drive commands carry no position feedback, so the preview maps each
// joint's signed drive fraction onto a +-90 degree deflection and runs plain
// forward kinematics over the three arm segments. It is an operator aid, not
// a measurement.
package pose

import (
	"math"

	"armctl/pkg/command"
)

// Arm segment lengths, base to wrist tip.
const (
	L1 = 10.0
	L2 = 10.0
	L3 = 5.0
)

// Point is a position in arm space.
type Point struct {
	X, Y, Z float64
}

// Skeleton holds the four joint positions: base origin, shoulder end,
// elbow end, wrist tip.
type Skeleton [4]Point

// Tip returns the wrist tip position.
func (s Skeleton) Tip() Point { return s[3] }

// axisAngle maps a joint command onto degrees: full forward drive is +90,
// full backward drive is -90, stopped is 0.
func axisAngle(c command.AxisCommand) float64 {
	return float64(2*c.Dir-1) * float64(c.Magnitude) / command.MagnitudeMax * 90
}

// Forward computes the preview skeleton for a command snapshot.
func Forward(snap command.Snapshot) Skeleton {
	base := radians(axisAngle(snap.Base))
	shoulder := radians(axisAngle(snap.Shoulder))
	elbow := radians(axisAngle(snap.Elbow))
	wrist := radians(float64(snap.Wrist))

	var s Skeleton
	s[1] = Point{
		X: L1 * math.Cos(base) * math.Cos(shoulder),
		Y: L1 * math.Sin(base) * math.Cos(shoulder),
		Z: L1 * math.Sin(shoulder),
	}
	s[2] = Point{
		X: s[1].X + L2*math.Cos(base)*math.Cos(shoulder+elbow),
		Y: s[1].Y + L2*math.Sin(base)*math.Cos(shoulder+elbow),
		Z: s[1].Z + L2*math.Sin(shoulder+elbow),
	}
	s[3] = Point{
		X: s[2].X + L3*math.Cos(base)*math.Cos(wrist),
		Y: s[2].Y + L3*math.Sin(base)*math.Cos(wrist),
		Z: s[2].Z + L3*math.Sin(wrist),
	}
	return s
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
