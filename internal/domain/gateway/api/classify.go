package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"go-weather/internal/domain/apierror"
	"go-weather/internal/domain/model/external"
)

// classify turns the result of an http.Client call into the error taxonomy.
// status 0 means no response was received.
func classify(status int, errResp any, err error) error {
	if err == nil {
		return nil
	}

	if status == 0 || isTransportFailure(err) {
		if errors.Is(err, context.Canceled) {
			return apierror.NewUnavailableError("Weather API request cancelled", 0, err)
		}
		return apierror.NewUnavailableError("Weather API is currently unavailable", 0, err)
	}

	if status >= 200 && status < 300 {
		// 2xx with an undecodable body: not part of the taxonomy.
		return fmt.Errorf("unexpected weather api payload: %w", err)
	}

	message := "unknown error"
	if body, ok := errResp.(*external.APIErrorResponse); ok && body != nil && body.Message != "" {
		message = body.Message
	}
	return apierror.FromStatus(status, message)
}

func isTransportFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
