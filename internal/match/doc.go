// Package match ranks binding names by similarity so diagnostics can offer
// "did you mean" suggestions.
//
// Names are compared after normalization: case-folded, with the separators
// used by environment variables, system properties and command-line options
// (_ - . and spaces) removed, so DATABASE_URL, database.url and database-url
// compare equal.
package match
