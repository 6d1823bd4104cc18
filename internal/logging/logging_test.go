package logging

import (
	"testing"

	"github.com/vvka-141/deckpack/pkg/deckpack"
)

func TestLoggersImplementContract(t *testing.T) {
	var _ deckpack.Logger = NewConsoleLogger(true)
	var _ deckpack.Logger = NewNullLogger()
}

func TestNullLogger_NoPanic(t *testing.T) {
	l := NewNullLogger()
	l.Verbose("verbose %d", 1)
	l.Info("info %s", "x")
	l.Error("error %v", nil)
}
