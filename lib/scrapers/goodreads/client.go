package goodreads

import (
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"

	"bookshelf-backend/lib/telemetry"
)

const DefaultBaseUrl = "https://www.goodreads.com"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const (
	// the results-page fetch is bounded, detail-page fetches are not
	resultsTimeout = time.Second * 5
	// courtesy delay before each detail-page fetch
	defaultDetailPause = time.Second
	// hard cap on detail pages fetched per search, keeps request volume
	// toward the site low and search latency predictable
	maxCandidates = 3
)

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	detailPause time.Duration
}

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl when empty.
	BaseUrl string
	// DetailPause overrides the delay before each detail-page fetch.
	// Zero keeps the 1s default.
	DetailPause time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if opts.DetailPause == 0 {
		opts.DetailPause = defaultDetailPause
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)

	telemetry.InstrumentResty(client, "scrapers/goodreads/http")

	c := &Client{
		BaseUrl:     baseUrl,
		Http:        client,
		detailPause: opts.DetailPause,
	}
	return c, nil
}
