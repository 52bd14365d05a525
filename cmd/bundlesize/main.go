// Package main provides the entry point for the bundlesize CLI.
//
// bundlesize compares bundle-size reports of a pull request build against a
// baseline and renders the differences as a Markdown comment, a terminal
// table, JSON or HTML.
//
// Usage:
//
//	bundlesize compare --current dist/bundle-size.json --baseline base.json
//	bundlesize upload dist/bundle-size.json --branch main --commit $SHA
//	bundlesize compare --current dist/bundle-size.json --branch main
//
// See --help for all available options.
package main

// main is the entry point for bundlesize.
func main() {
	Execute()
}
