package umbraco

import (
	"crypto/tls"
	"net/http"
)

// devHostname is the only host for which certificate verification is skipped
const devHostname = "localhost"

// Doer executes HTTP requests
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transport sends requests to the CMS. HTTPS requests to localhost go through
// a client that accepts self-signed development certificates; everything else
// uses a standard client. Errors and non-2xx responses are returned untouched.
type Transport struct {
	standard *http.Client
	devTLS   *http.Client
}

// NewTransport creates a transport with no request timeout
func NewTransport() *Transport {
	devTransport := http.DefaultTransport.(*http.Transport).Clone()
	devTransport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: true, // localhost development certificates only
	}

	return &Transport{
		standard: &http.Client{},
		devTLS:   &http.Client{Transport: devTransport},
	}
}

// Do implements Doer
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	return t.clientFor(req).Do(req)
}

func (t *Transport) clientFor(req *http.Request) *http.Client {
	if isDevTLS(req) {
		return t.devTLS
	}
	return t.standard
}

func isDevTLS(req *http.Request) bool {
	return req.URL != nil && req.URL.Scheme == "https" && req.URL.Hostname() == devHostname
}
