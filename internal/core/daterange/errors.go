package daterange

import "errors"

var (
	ErrInvalidGranularity = errors.New("daterange: invalid granularity")
	ErrInvalidDate        = errors.New("daterange: invalid date")
	ErrInvalidInterval    = errors.New("daterange: invalid interval")
	ErrInvalidDirection   = errors.New("daterange: invalid direction")
	ErrInvalidFilter      = errors.New("daterange: invalid filter")
)
