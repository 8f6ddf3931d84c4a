package resthttp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

var runOnce sync.Once
var restyClient *resty.Client

// Client resty client
func Client() *resty.Client {
	runOnce.Do(func() {
		restyClient = resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Charset", "utf-8").
			SetTimeout(10 * time.Second)
	})

	return restyClient
}

// Request new resty request
func Request(ctx context.Context) *resty.Request {
	return Client().R().SetContext(ctx)
}

// Get fetches url and decodes the JSON response into resp.
func Get(ctx context.Context, url string, query map[string]string, resp interface{}) error {
	r, err := Request(ctx).SetQueryParams(query).SetResult(resp).Get(url)
	if err != nil {
		return err
	}

	if r.IsError() {
		return fmt.Errorf("GET %s: status %d", url, r.StatusCode())
	}

	return nil
}
