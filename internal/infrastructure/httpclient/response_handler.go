package httpclient

import (
	"fmt"
	"net/http"

	"github.com/Haleralex/quefilme/internal/domain/errors"
)

// HandleResponse returns the body of a successful response or the typed error for its status.
//
//	200, 204 → body
//	404      → NotFound
//	400      → BadRequest
//	other    → Unexpected (including 0, a transport failure)
func HandleResponse(resp *Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.Unexpected()
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		if resp.Err != nil {
			return nil, errors.WithCause(errors.Unexpected(), resp.Err)
		}
		return resp.Body, nil
	case http.StatusNotFound:
		return nil, errors.WithCause(errors.NotFound(), cause(resp))
	case http.StatusBadRequest:
		return nil, errors.WithCause(errors.BadRequest(), cause(resp))
	default:
		return nil, errors.WithCause(errors.Unexpected(), cause(resp))
	}
}

func cause(resp *Response) error {
	if resp.Err != nil {
		return resp.Err
	}
	return fmt.Errorf("upstream responded with status %d", resp.StatusCode)
}
