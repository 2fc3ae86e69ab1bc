package resources

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// FetchHTTP
// Fetch a resource from a remote HTTP server with bearer token auth.
func FetchHTTP(uri string, rsrc string, auth string) (io.ReadCloser, error) {
	req, reqErr := http.NewRequest("GET", uri+"/"+rsrc, nil)
	if reqErr != nil {
		return nil, reqErr
	}
	if auth != "" {
		req.Header.Add("Authorization", "Bearer "+auth)
	}
	resp, remoteErr := http.DefaultClient.Do(req)
	if remoteErr != nil {
		return nil, remoteErr
	}
	if resp.StatusCode != 200 {
		resp.Body.Close()
		return nil, errors.New(fmt.Sprintf("HTTP status code %d",
			resp.StatusCode))
	}
	return resp.Body, nil
}

// SizeHTTP
// Get the size of a resource from a remote HTTP server with bearer token auth.
func SizeHTTP(uri string, rsrc string, auth string) (uint, error) {
	req, reqErr := http.NewRequest("HEAD", uri+"/"+rsrc, nil)
	if reqErr != nil {
		return 0, reqErr
	}
	if auth != "" {
		req.Header.Add("Authorization", "Bearer "+auth)
	}
	resp, remoteErr := http.DefaultClient.Do(req)
	if remoteErr != nil {
		return 0, remoteErr
	} else if resp.StatusCode != 200 {
		return 0, errors.New(fmt.Sprintf("HTTP status code %d",
			resp.StatusCode))
	} else {
		size, _ := strconv.Atoi(resp.Header.Get("Content-Length"))
		return uint(size), nil
	}
}
