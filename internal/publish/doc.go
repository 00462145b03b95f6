// Package publish pushes the rendered site directory to a git branch,
// typically gh-pages on the repository hosting the feeds.
package publish
