// Package textutil provides text helpers shared across the catalog and
// calendar writers, primarily slug generation for teams, leagues, and
// output filenames.
package textutil
