package tui

import "errors"

// ErrNilReport is returned when the viewer is given no report.
var ErrNilReport = errors.New("tui: report is required")
