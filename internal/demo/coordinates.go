// Package demo holds caller-side scenarios that drive the containers: a
// nested lookup through optional fields, last-element extraction over
// independent inputs, and a three-step asynchronous photo export.
package demo

import (
	"fmt"

	"github.com/kabu1204/go-monad/optional"
)

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type City struct {
	Name        string
	Coordinates *Coordinates
}

type Location struct {
	Country string
	City    *City
}

type Response struct {
	Location *Location
}

const ErrNoCoordinates = "Error: Coordinates cannot be null"

// CoordinatesOf walks resp -> location -> city -> coordinates, stopping at
// the first missing link.
func CoordinatesOf(resp *Response) optional.Optional[*Coordinates] {
	loc := optional.Bind(optional.Of(resp), func(r *Response) optional.Optional[*Location] {
		return optional.Of(r.Location)
	})
	city := optional.Bind(loc, func(l *Location) optional.Optional[*City] {
		return optional.Of(l.City)
	})
	return optional.Bind(city, func(c *City) optional.Optional[*Coordinates] {
		return optional.Of(c.Coordinates)
	})
}

// DescribeCoordinates renders the lookup, or ErrNoCoordinates when any link
// is missing.
func DescribeCoordinates(resp *Response) string {
	return optional.Fold(CoordinatesOf(resp), ErrNoCoordinates, func(c *Coordinates) string {
		return fmt.Sprintf("[%g, %g]", c.Latitude, c.Longitude)
	})
}
