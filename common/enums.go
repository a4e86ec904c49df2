// Package common keeps enumerations shared by configuration, the
// transformation engine and the command line.
package common

//go:generate go tool github.com/abice/go-enum --marshal --names

// Writing direction of a stylesheet.
// ENUM(ltr, rtl)
type Direction int

// Opposite returns the other writing direction.
func (d Direction) Opposite() Direction {
	if d == DirectionRtl {
		return DirectionLtr
	}
	return DirectionRtl
}

// Suffix returns the name suffix used for direction specific identifiers,
// e.g. "-ltr".
func (d Direction) Suffix() string {
	return "-" + d.String()
}
