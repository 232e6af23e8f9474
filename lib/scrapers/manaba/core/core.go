package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"manaba-go/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/manaba/core")

var (
	// ErrNotLoggedIn is returned by every page fetch attempted before a
	// successful Login. No request is issued in that case.
	ErrNotLoggedIn = errors.New("not logged in to manaba")
	// ErrLoginFailed means the login page or the credential submission
	// did not come back with a 200.
	ErrLoginFailed = errors.New("failed to log in to manaba")
	// ErrNotFound maps the 403/404 manaba serves for missing or
	// inaccessible entities.
	ErrNotFound = errors.New("page not found")
)

// Client owns the cookie-bearing session against one manaba deployment.
// All entity URLs live under the fixed /ct/ prefix.
type Client struct {
	BaseUrl  *url.URL
	Http     *resty.Client
	loggedIn bool
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/manaba/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// Login fetches /ct/login, scrapes the hidden session fields out of the
// login form and submits them together with the credentials. The session
// cookies set by the server are the only authentication state; success is
// judged purely by the 200 on the submission response.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/ct/login")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	if res.StatusCode() != 200 {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return fmt.Errorf("login page returned %d: %w", res.StatusCode(), ErrLoginFailed)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse login page html")
		return err
	}

	form := doc.Find("div#login-form-box")
	sessionValue1 := form.Find("input[name=SessionValue1]").AttrOr("value", "")
	sessionValue := form.Find("input[name=SessionValue]").AttrOr("value", "")
	loginValue := form.Find("input[name=login]").AttrOr("value", "")
	if form.Length() == 0 {
		span.SetStatus(codes.Error, "failed to find login form")
		return fmt.Errorf("could not find login form: %w", ErrLoginFailed)
	}

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"userid":        username,
			"password":      password,
			"login":         loginValue,
			"manaba-form":   "1",
			"sessionValue1": sessionValue1,
			"sessionValue":  sessionValue,
		}).
		Post("/ct/login")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit login form")
		return err
	}
	if res.StatusCode() != 200 {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return fmt.Errorf("login submission returned %d: %w", res.StatusCode(), ErrLoginFailed)
	}

	c.loggedIn = true
	return nil
}

func (c *Client) LoggedIn() bool {
	return c.loggedIn
}

// GetDoc fetches a path under the base URL and parses the body. 403 and
// 404 surface as ErrNotFound since manaba serves both for entities the
// user cannot see; any other non-2xx is a transport failure.
func (c *Client) GetDoc(ctx context.Context, path string) (*goquery.Document, error) {
	if !c.loggedIn {
		return nil, ErrNotLoggedIn
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() == 403 || res.StatusCode() == 404 {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if res.IsError() {
		return nil, fmt.Errorf("unexpected status %d fetching %s", res.StatusCode(), path)
	}

	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}
