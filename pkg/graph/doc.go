// Package graph defines the plan entity model for roomplan.
// A plan is a flat, insertion-ordered collection of volumes (rooms,
// shelves, boxes), openings (doors, windows) and named constants, each
// volume and opening placed relative to another entity by name.
//
// Axis convention: x is width, y is depth, z is height. "right" is +x,
// "behind" is +y and "above" is +z; "left", "front" and "below" are the
// negative counterparts. Units are whatever the input uses.
package graph
