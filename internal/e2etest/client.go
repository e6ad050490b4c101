package e2etest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type Client struct {
	client *http.Client
	url    string
	// secFetchSite is sent as the Sec-Fetch-Site header when set.
	secFetchSite string
}

// StatusError is returned when the server responds with something other than 200 OK. Doc holds the parsed response
// body so that tests can assert on validation messages.
type StatusError struct {
	StatusCode int
	Doc        *goquery.Document
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// NewClient creates an HTTP client with a cookie jar that keeps the session of the anonymous profile.
func NewClient(url string) (*Client, error) {
	return NewClientWithSecFetchSite(url, "")
}

// NewClientWithSecFetchSite creates a client that sends the given Sec-Fetch-Site header with every request.
// Use "cross-site" to simulate requests coming from another origin.
func NewClientWithSecFetchSite(url, secFetchSite string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, fmt.Errorf("create unsafe cookie jar: %w", err)
	}
	return &Client{
		client:       &http.Client{Jar: jar}, //nolint:exhaustruct // defaults are fine in tests.
		url:          url,
		secFetchSite: secFetchSite,
	}, nil
}

// unsafeCookieJar ignores the Secure attribute so that the test server can be reached over plain HTTP.
type unsafeCookieJar struct {
	*cookiejar.Jar
}

func newUnsafeCookieJar() (*unsafeCookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("new cookie jar: %w", err)
	}
	return &unsafeCookieJar{Jar: jar}, nil
}

func (j *unsafeCookieJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	j.Jar.SetCookies(u, cookies)
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if resp, err = c.client.Do(req); err == nil {
			if err = resp.Body.Close(); err != nil {
				return fmt.Errorf("close response body: %w", err)
			}
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, fmt.Errorf("create request with context: %w", err)
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, urlPath)
	if err != nil {
		return nil, fmt.Errorf("client get: %w", err)
	}
	return documentFromResponse(resp)
}

// PostForm posts formData to urlPath and returns the response document.
func (c *Client) PostForm(ctx context.Context, urlPath string, formData neturl.Values) (*goquery.Document, error) {
	req, err := c.newRequestWithContext(ctx, http.MethodPost, urlPath, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, fmt.Errorf("new request with context: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return documentFromResponse(resp)
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.secFetchSite != "" {
		req.Header.Set("Sec-Fetch-Site", c.secFetchSite)
	}
	return req, nil
}

// SubmitForm submits a form in the doc identified with action formActionUrlPath and returns the response document.
// formFields is a map of label text to value. The function will find the input, textarea or select by label and set
// its value. Hidden inputs of the form are submitted as they are.
func (c *Client) SubmitForm(
	ctx context.Context,
	doc *goquery.Document,
	formActionURLPath string,
	formFields map[string]string,
) (*goquery.Document, error) {
	form, err := FindForm(doc, formActionURLPath)
	if err != nil {
		return nil, fmt.Errorf("find form: %w", err)
	}

	formData := neturl.Values{}
	form.Find("input[type=hidden]").Each(func(_ int, hidden *goquery.Selection) {
		if name, ok := hidden.Attr("name"); ok {
			formData.Add(name, hidden.AttrOr("value", ""))
		}
	})

	for labelText, value := range formFields {
		var field *goquery.Selection
		if field, err = FindInputForLabel(form, labelText); err != nil {
			if field, err = FindSelectForLabel(form, labelText); err != nil {
				return nil, fmt.Errorf("find field for label: %w", err)
			}
		}

		name, exists := field.Attr("name")
		if !exists {
			return nil, fmt.Errorf("field has no name attribute (label: %s, form_action: %s)",
				labelText, formActionURLPath)
		}

		formData.Set(name, value)
	}

	return c.PostForm(ctx, formActionURLPath, formData)
}

// documentFromResponse parses the body and closes it. Responses other than 200 OK are returned as *StatusError.
func documentFromResponse(resp *http.Response) (*goquery.Document, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}
	doc.Url = resp.Request.URL
	if http.StatusOK != resp.StatusCode {
		return nil, &StatusError{StatusCode: resp.StatusCode, Doc: doc}
	}
	return doc, nil
}
