package geo

import "context"

// Locator obtains the device's current position.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// StaticLocator always reports the same position.
type StaticLocator Coordinates

// Locate implements Locator.
func (s StaticLocator) Locate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, ErrUnavailable
	}
	return Coordinates(s), nil
}

// DeniedLocator behaves as if the user refused location access.
type DeniedLocator struct{}

// Locate implements Locator.
func (DeniedLocator) Locate(context.Context) (Coordinates, error) {
	return Coordinates{}, ErrPermissionDenied
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Coordinates, error)

// Locate implements Locator.
func (f LocatorFunc) Locate(ctx context.Context) (Coordinates, error) { return f(ctx) }
