package navigation

import "fmt"

// GeometryErrorKind classifies why a screen/sphere computation could not produce a point.
type GeometryErrorKind int

const (
	// NoIntersection means the view ray does not meet the unit sphere.
	NoIntersection GeometryErrorKind = iota + 1
	// DegenerateViewport means the resolution or view angle cannot span a screen.
	DegenerateViewport
	// DegenerateEye means the eye distance does not place the eye strictly inside the sphere.
	DegenerateEye
	// DegenerateRay means the view ray has no usable direction.
	DegenerateRay
	// BehindCamera means a sphere point lies behind the screen plane and has no screen position.
	BehindCamera
)

func (k GeometryErrorKind) String() string {
	switch k {
	case NoIntersection:
		return "no intersection"
	case DegenerateViewport:
		return "degenerate viewport"
	case DegenerateEye:
		return "degenerate eye configuration"
	case DegenerateRay:
		return "degenerate ray"
	case BehindCamera:
		return "point behind camera"
	default:
		return "unknown geometry error"
	}
}

// GeometryError is returned instead of a NaN-valued result whenever the view parameters or the requested point
// make a projection impossible. Callers are expected to drop the offending gesture or frame and keep the last good state.
type GeometryError struct {
	// Op is the calculator operation that failed.
	Op string
	// Kind classifies the failure.
	Kind GeometryErrorKind
	// Detail carries the offending values, if any.
	Detail string
}

// Sentinel values for errors.Is comparisons. Only Kind is compared.
var (
	ErrNoIntersection     = &GeometryError{Kind: NoIntersection}
	ErrDegenerateViewport = &GeometryError{Kind: DegenerateViewport}
	ErrDegenerateEye      = &GeometryError{Kind: DegenerateEye}
	ErrDegenerateRay      = &GeometryError{Kind: DegenerateRay}
	ErrBehindCamera       = &GeometryError{Kind: BehindCamera}
)

func (e *GeometryError) Error() string {
	msg := "navigation: " + e.Kind.String()
	if e.Op != "" {
		msg = "navigation: " + e.Op + ": " + e.Kind.String()
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Is reports whether target is a GeometryError of the same kind.
func (e *GeometryError) Is(target error) bool {
	t, ok := target.(*GeometryError)
	return ok && t.Kind == e.Kind
}

func newGeometryError(op string, kind GeometryErrorKind, format string, args ...any) *GeometryError {
	return &GeometryError{
		Op:     op,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}
