package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrNilReport(t *testing.T) {
	assert.EqualError(t, ErrNilReport, "tui: report is required")
}
