package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/latepizza/internal/ledger"
)

// toConnectError maps ledger error kinds onto Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	code := connect.CodeInternal
	switch {
	case errors.Is(err, ledger.ErrValidation):
		code = connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, ledger.ErrUnauthorized):
		code = connect.CodePermissionDenied
	case errors.Is(err, ledger.ErrConflict):
		code = connect.CodeAborted
	}
	return connect.NewError(code, err)
}
