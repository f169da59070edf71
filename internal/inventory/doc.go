// Package inventory loads repository configurations from a CSV file.
//
// The file carries one repository per row (path, comma-separated branches,
// optional enabled flag). Loading validates the header eagerly and yields
// validated rows as a restartable lazy sequence, warning about and skipping
// unusable rows instead of aborting the run.
package inventory
