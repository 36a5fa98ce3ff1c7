//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// sgsclient - a thin wrapper around the server's "/chart" routes
type sgsclient struct {
	base string
	http *http.Client
}

// failure - the error body the chart routes send
type failure struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func clientfor(cmd *cobra.Command) *sgsclient {
	base, _ := cmd.Flags().GetString("server")
	return &sgsclient{
		base: strings.TrimSuffix(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// do - send the request; anything but a 2xx comes back as an error carrying the server's explanation
func (sc *sgsclient) do(method string, path string, body string) ([]byte, error) {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, sc.base+path, rd)
	if err != nil {
		return nil, err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := sc.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting %s: %w", sc.base, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var f failure
		if json.Unmarshal(b, &f) == nil && f.Error != "" {
			return nil, fmt.Errorf("%s %s: %d (%s): %s", method, path, resp.StatusCode, f.Kind, f.Error)
		}
		return nil, fmt.Errorf("%s %s: %d", method, path, resp.StatusCode)
	}
	return b, nil
}

func (sc *sgsclient) getjson(method string, path string, body string, into interface{}) ([]byte, error) {
	b, err := sc.do(method, path, body)
	if err != nil {
		return nil, err
	}
	if into != nil && len(b) > 0 {
		if err = json.Unmarshal(b, into); err != nil {
			return b, fmt.Errorf("reading the reply to %s: %w", path, err)
		}
	}
	return b, nil
}
