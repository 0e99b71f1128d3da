package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AngelCh415/attributely-go/internal/utils"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// StatusError es una respuesta no-2xx; Body trae como mucho 1 KiB.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx: %d body=%s", e.Status, string(e.Body))
}

func getJSON(ctx context.Context, c HTTPClient, url string, v any) error {
	if url == "" {
		return errors.New("empty url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Status: resp.StatusCode, Body: b}
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

var defaultBackoff = utils.NewBackoff(100*time.Millisecond, 2).WithJitter(150 * time.Millisecond)

// GetJSONWithRetry reintenta errores de transporte y 5xx; los 4xx se devuelven
// enseguida.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any) error {
	return getJSONWithBackoff(ctx, c, defaultBackoff, url, dst)
}

func getJSONWithBackoff(ctx context.Context, c HTTPClient, b utils.Backoff, url string, dst any) error {
	return b.Do(ctx, func(int) error {
		err := getJSON(ctx, c, url, dst)
		var se *StatusError
		if errors.As(err, &se) && se.Status < 500 {
			return utils.Permanent(err)
		}
		return err
	})
}
