package connect

import (
	"context"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/osa030/tunewave/internal/app/discovery"
	"github.com/osa030/tunewave/internal/app/library"
	"github.com/osa030/tunewave/internal/app/playback"
)

var validate = validator.New()

// validateRequest checks the validate tags of a request message.
func validateRequest(msg any) error {
	if err := validate.Struct(msg); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, errors.Wrap(err, "invalid request"))
	}
	return nil
}

// toConnectError maps application errors to Connect codes.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	var fieldErr *library.FieldError
	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, library.ErrPlaylistNotFound),
		errors.Is(err, playback.ErrTrackNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, discovery.ErrUnknownQueue),
		errors.Is(err, discovery.ErrUnknownCountry),
		errors.As(err, &fieldErr):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, library.ErrFormBusy):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
