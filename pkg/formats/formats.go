// Package formats provides parsers for triangle mesh file formats.
package formats

// Note: STL (binary and ASCII) is fully implemented in stl.go
