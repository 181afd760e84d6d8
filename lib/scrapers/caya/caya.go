package caya

import (
	"net/http/cookiejar"
	"time"

	"cayasync/lib/restyutil"
	"cayasync/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/caya")

const UserAgent = "cayasync/1.0"

// DefaultEndpoint is the portal's batched graphql endpoint.
const DefaultEndpoint = "https://customer-api.caya.com/"

// DefaultAPIHosts are the url prefixes the portal's web app sends
// authenticated requests to, the bearer token is captured off the
// first request matching one of these.
var DefaultAPIHosts = []string{
	"https://customer-api.caya.com",
	"https://api.getcaya.com",
}

// AuthContext carries the short-lived credentials captured from one
// browser login. It is immutable and passed explicitly into every
// query for the lifetime of a run.
type AuthContext struct {
	// full header value, e.g. "Bearer eyJ..."
	Authorization string
	// "name=value; " pairs serialized from the session cookie jar
	CookieHeader string
}

type Client struct {
	http     *resty.Client
	endpoint string
}

type ClientOptions struct {
	// defaults to DefaultEndpoint
	Endpoint string
}

var restyDumpOutput restyutil.InstrumentOutput

func SetRestyDumpOutput(output restyutil.InstrumentOutput) {
	restyDumpOutput = output
}

type dumpProxy struct{}

func (dumpProxy) Write(id string, contents string) {
	if restyDumpOutput != nil {
		restyDumpOutput.Write(id, contents)
	}
}

func NewClient(opts ClientOptions) (*Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", UserAgent)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/caya/http")
	restyutil.DumpClient(client, dumpProxy{})

	return &Client{
		http:     client,
		endpoint: endpoint,
	}, nil
}
