// Package fetch contains the http plumbing shared by the market data feeds.
package fetch

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"
)

// UserAgent is the fixed identification header sent with every request.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X) twr/1.0"

// Timeout bounds every outbound call. A timed out step is simply unusable,
// there is no retry at this layer.
const Timeout = 20 * time.Second

// identify sets the User-Agent header on every request.
type identify struct {
	base http.RoundTripper
}

func (t *identify) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", UserAgent)
	return t.base.RoundTrip(req)
}

// NewClient returns the client used for one-shot requests.
func NewClient() *http.Client {
	return &http.Client{
		Timeout:   Timeout,
		Transport: &identify{http.DefaultTransport},
	}
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// get from disk
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", time.Now().Format("2006-01-02"), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// NewDailyCachingClient returns a client whose responses expire once a day.
func NewDailyCachingClient() *http.Client {
	return &http.Client{
		Timeout:   Timeout,
		Transport: &diskCache{&identify{http.DefaultTransport}},
	}
}

// JSON performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func JSON(client *http.Client, addr string, data interface{}) error {
	body, err := Bytes(client, addr)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}

// Bytes performs an HTTP GET request and returns the raw response body.
func Bytes(client *http.Client, addr string) ([]byte, error) {
	resp, err := client.Get(addr)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
