// Package registry holds the category registry consulted at the start of
// every run.
//
// A Registry maps category names to catalogs, remembers registration order
// and keeps a closed alias table from well-known identifiers (StringTests,
// MathTests, ArrayTests) to display names. Resolve turns a list of
// selectors from configuration into the categories to execute using three
// tiers:
//
//  1. exact display-name match, in registration order
//  2. alias lookup, in request order
//  3. every registered category, reported as a fallback
//
// A registry is built once per run and then only read. It is safe for
// concurrent use.
package registry
