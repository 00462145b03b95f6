// Command fixturecal is the CLI for the fixture calendar toolchain. It can
// run the crawl, render, publish, and reminder steps one-shot, inspect the
// catalog, and host the scheduling daemon in the foreground.
package main
