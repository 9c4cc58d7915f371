package fabric

import "fmt"

// PosOutsideOfFabricError reports a link endpoint that names a cell
// outside the grid, or an absent stitch.
type PosOutsideOfFabricError struct {
	X, Y int
}

func (e *PosOutsideOfFabricError) Error() string {
	return fmt.Sprintf("position %d,%d is outside of the fabric", e.X, e.Y)
}

// LinkTooFarError reports a link whose endpoints exceed MaxStitchGap /
// MaxRowGap while Dimensions.AllowLinkGaps is false.
type LinkTooFarError struct {
	Link Link
}

func (e *LinkTooFarError) Error() string {
	return fmt.Sprintf("link is too far: %s", formatLink(e.Link))
}

// LinkToDifferentColorError reports a link whose two endpoints have
// different colors.
type LinkToDifferentColorError struct {
	Link Link
}

func (e *LinkToDifferentColorError) Error() string {
	return fmt.Sprintf("colors don't match for link: %s", formatLink(e.Link))
}

// LinkNotFoundError reports a link whose earlier-knitted endpoint is no
// longer held by any thread at sweep time (e.g. the neighbor rule moved
// it away before the link could bind it).
type LinkNotFoundError struct {
	Link Link
}

func (e *LinkNotFoundError) Error() string {
	return fmt.Sprintf("no thread found for link %s", formatLink(e.Link))
}

func formatLink(l Link) string {
	return fmt.Sprintf(
		"%d,%d->%d,%d",
		l.Source.X, l.Source.Y, l.Dest.X, l.Dest.Y,
	)
}
