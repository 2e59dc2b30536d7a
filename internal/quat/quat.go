// Package quat holds the quaternion math shared by the rotation scripts.
//
// Every function takes and returns values; nothing here keeps state between
// calls. Quaternions use raylib's (X, Y, Z, W) layout with W as the scalar
// part, and the coordinate system is right-handed: a positive angle turns
// counter-clockwise when looking down the axis towards the origin.
package quat

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Epsilon is the tolerance used for degenerate-case checks and Equal.
const Epsilon = 1e-6

// Status reports whether an operation hit a singular input.
type Status int

const (
	StatusOK       Status = iota
	StatusHalfTurn        // rotation is exactly half a turn; the angle could not be rescaled
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusHalfTurn:
		return "half-turn"
	}
	return "unknown"
}

var (
	UnitX = rl.Vector3{X: 1}
	UnitY = rl.Vector3{Y: 1}
	UnitZ = rl.Vector3{Z: 1}
)

// Identity returns the quaternion that represents no rotation.
func Identity() rl.Quaternion {
	return rl.Quaternion{W: 1}
}

// AxisAngle builds a quaternion from an axis and a half-angle. halfAngle is fed
// straight into sin/cos, so pass half of the rotation you want. axis should be
// unit length; a zero axis gives (0, 0, 0, cos(halfAngle)).
func AxisAngle(axis rl.Vector3, halfAngle float32) rl.Quaternion {
	s := math32.Sin(halfAngle)
	return rl.Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math32.Cos(halfAngle),
	}
}

// Hamilton returns the product a*b, the rotation b followed by the rotation a.
// The result is not normalized.
func Hamilton(a, b rl.Quaternion) rl.Quaternion {
	return rl.Quaternion{
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y + a.Y*b.W + a.Z*b.X - a.X*b.Z,
		Z: a.W*b.Z + a.Z*b.W + a.X*b.Y - a.Y*b.X,
	}
}

// RescaleAngle returns a quaternion about the same axis as q whose angle is
// factor times q's angle. A factor of 1 only normalizes q.
//
// At exactly half a turn q and -q are equally short paths, so there is no
// single direction to scale; q is returned normalized and StatusHalfTurn is
// reported so the caller can decide what to do.
func RescaleAngle(q rl.Quaternion, factor float32) (rl.Quaternion, Status) {
	q = Normalize(q)
	if factor == 1 {
		return q, StatusOK
	}
	if math32.Abs(q.W) < Epsilon {
		return q, StatusHalfTurn
	}

	// Take the short way round so the scaled angle stays in [0, pi].
	if q.W < 0 {
		q = negate(q)
	}

	axis := rl.Vector3{X: q.X, Y: q.Y, Z: q.Z}
	sinHalf := vecLength(axis)
	if sinHalf < Epsilon {
		return Identity(), StatusOK
	}
	axis = scaleVec(axis, 1/sinHalf)

	half := math32.Atan2(sinHalf, q.W) * factor
	return Normalize(AxisAngle(axis, half)), StatusOK
}

// RotateVector rotates v by the unit quaternion q using the expanded form of
// q * v * q^-1.
func RotateVector(q rl.Quaternion, v rl.Vector3) rl.Vector3 {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	xw, yw, zw := q.X*q.W, q.Y*q.W, q.Z*q.W

	return rl.Vector3{
		X: v.X*(1-2*(yy+zz)) + 2*v.Y*(xy-zw) + 2*v.Z*(xz+yw),
		Y: 2*v.X*(xy+zw) + v.Y*(1-2*(xx+zz)) + 2*v.Z*(yz-xw),
		Z: 2*v.X*(xz-yw) + 2*v.Y*(yz+xw) + v.Z*(1-2*(xx+yy)),
	}
}

// Length returns the norm of q.
func Length(q rl.Quaternion) float32 {
	return math32.Sqrt(Dot(q, q))
}

// Dot returns the 4D dot product of a and b.
func Dot(a, b rl.Quaternion) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Normalize returns q scaled to unit length. A zero quaternion becomes the
// identity.
func Normalize(q rl.Quaternion) rl.Quaternion {
	l := Length(q)
	if l < Epsilon {
		return Identity()
	}
	inv := 1 / l
	return rl.Quaternion{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// Inverse returns the multiplicative inverse of q. For unit quaternions this is
// the conjugate.
func Inverse(q rl.Quaternion) rl.Quaternion {
	n := Dot(q, q)
	if n < Epsilon*Epsilon {
		return Identity()
	}
	inv := 1 / n
	return rl.Quaternion{X: -q.X * inv, Y: -q.Y * inv, Z: -q.Z * inv, W: q.W * inv}
}

// Equal reports whether a and b describe the same rotation within eps.
// q and -q are treated as equal.
func Equal(a, b rl.Quaternion, eps float32) bool {
	return within(a, b, eps) || within(a, negate(b), eps)
}

// Angle returns the full rotation angle of q in radians, in [0, pi].
func Angle(q rl.Quaternion) float32 {
	q = Normalize(q)
	return 2 * math32.Atan2(vecLength(rl.Vector3{X: q.X, Y: q.Y, Z: q.Z}), math32.Abs(q.W))
}

// Basis returns the right (+X), up (+Y) and forward (+Z) axes of the
// orientation q.
func Basis(q rl.Quaternion) (right, up, forward rl.Vector3) {
	return RotateVector(q, UnitX), RotateVector(q, UnitY), RotateVector(q, UnitZ)
}

// NormalizeVec returns v at unit length. Zero vectors are returned unchanged.
func NormalizeVec(v rl.Vector3) rl.Vector3 {
	l := vecLength(v)
	if l < Epsilon {
		return v
	}
	return scaleVec(v, 1/l)
}

// IsZeroVec reports whether every component of v is within Epsilon of zero.
func IsZeroVec(v rl.Vector3) bool {
	return math32.Abs(v.X) < Epsilon && math32.Abs(v.Y) < Epsilon && math32.Abs(v.Z) < Epsilon
}

func within(a, b rl.Quaternion, eps float32) bool {
	return math32.Abs(a.X-b.X) <= eps &&
		math32.Abs(a.Y-b.Y) <= eps &&
		math32.Abs(a.Z-b.Z) <= eps &&
		math32.Abs(a.W-b.W) <= eps
}

func negate(q rl.Quaternion) rl.Quaternion {
	return rl.Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
}

func vecLength(v rl.Vector3) float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func scaleVec(v rl.Vector3, s float32) rl.Vector3 {
	return rl.Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}
