package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/dtrack/internal/core/daterange"
	"github.com/ogurasousui/dtrack/internal/core/profile"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, profile.ErrMissingCredential):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, profile.ErrUnrecoverable):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, profile.ErrExhausted),
		errors.Is(err, profile.ErrProvisioningFailed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, daterange.ErrInvalidGranularity),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, daterange.ErrInvalidInterval),
		errors.Is(err, daterange.ErrInvalidDirection),
		errors.Is(err, daterange.ErrInvalidFilter):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
