package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Fetch retrieves url with the given client and returns the response body
// as text. Non-2xx statuses and transport failures both surface as a
// *FetchError; the status fields are set only for the former.
func Fetch(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Err: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}
