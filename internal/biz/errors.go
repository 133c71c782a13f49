package biz

import (
	"fmt"

	"github.com/yola1107/kratos/v2/errors"
)

const (
	ReasonInvalidConfig = "INVALID_CONFIG"
	ReasonEngineFault   = "ENGINE_FAULT"
	ReasonInvalidRound  = "INVALID_ROUND"
	ReasonSourceClosed  = "SOURCE_CLOSED"
)

var (
	// ErrSourceClosed is returned when a round is requested after the source stopped.
	ErrSourceClosed = errors.ServiceUnavailable(ReasonSourceClosed, "round source closed")
)

func configError(format string, args ...any) error {
	return errors.BadRequest(ReasonInvalidConfig, fmt.Sprintf(format, args...))
}

func engineFault(format string, args ...any) error {
	return errors.InternalServer(ReasonEngineFault, fmt.Sprintf(format, args...))
}

func roundError(format string, args ...any) error {
	return errors.BadRequest(ReasonInvalidRound, fmt.Sprintf(format, args...))
}

// IsInvalidConfig reports whether err was raised by configuration validation.
func IsInvalidConfig(err error) bool { return errors.Reason(err) == ReasonInvalidConfig }

// IsEngineFault reports whether err is a cascade safety-valve fault.
func IsEngineFault(err error) bool { return errors.Reason(err) == ReasonEngineFault }

// IsInvalidRound reports whether err was a rejected round payload.
func IsInvalidRound(err error) bool { return errors.Reason(err) == ReasonInvalidRound }
