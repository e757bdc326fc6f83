package handler

import (
	"fmt"
	"net/http"
)

// Normalize turns an action result into a *Response.
//
//   - nil becomes an empty 200 response
//   - string, []byte and fmt.Stringer become a 200 text/html response
//   - *Response is returned as is
//   - Renderer is rendered into a buffer
//   - error is returned as the error value, for the ExceptionHandler to classify
//   - any other value is encoded as JSON
func Normalize(r *http.Request, v any) (*Response, error) {
	switch val := v.(type) {
	case nil:
		return EmptyWithStatus(http.StatusOK), nil
	case *Response:
		if val == nil {
			return EmptyWithStatus(http.StatusOK), nil
		}
		return val, nil
	case error:
		return nil, val
	case string:
		return Text(val), nil
	case []byte:
		return TextWithStatus(string(val), http.StatusOK), nil
	case Renderer:
		w := NewResponseWriter()
		if err := val.Render(w, r); err != nil {
			return nil, err
		}
		return w.Response(), nil
	case fmt.Stringer:
		return Text(val.String()), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		return Text(fmt.Sprint(val)), nil
	case float32, float64:
		return Text(fmt.Sprint(val)), nil
	default:
		resp, err := JSON(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %T: %v", ErrUnsupportedValue, v, err)
		}
		return resp, nil
	}
}
