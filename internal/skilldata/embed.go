// Package skilldata embeds the starter assets written by `slideroute init`:
// a skeleton deck config and a sample template source demonstrating the
// expected shapes.
package skilldata

import _ "embed"

// StarterConfig is the skeleton slideroute.yml.
//
//go:embed starter/slideroute.yml
var StarterConfig []byte

// SampleTemplate is a minimal template source with one table, one chart, and
// one free-text pattern.
//
//go:embed starter/deck_template.json
var SampleTemplate []byte
