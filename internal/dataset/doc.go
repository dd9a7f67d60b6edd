// Package dataset owns the cleaning and selection layer of the density
// data model.
//
// Responsibilities: deduplication of (time, x, y, z) samples, half-open
// range selection in time and the x/y plane, and random sample grid
// sizing.
// Key types: Row, Table, Dataset, SelectionParams.
//
// Dependency rule: dataset never parses files and never touches SQL.
// Loading lives in dataset/loader, persistence in internal/store.
package dataset
