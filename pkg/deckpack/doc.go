// Package deckpack defines the public contracts and data model of the
// presentation package integrity engine.
//
// A presentation document is a zip archive of XML parts (the Office Open XML
// presentation package format). This package holds the in-memory part tree
// (Package), the engine contract (Engine), result types, sentinel errors and
// the pluggable Logger interface. Implementations live under internal/.
package deckpack
