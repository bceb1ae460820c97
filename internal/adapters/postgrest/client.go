package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ogurasousui/dtrack/internal/core/daterange"
	"github.com/ogurasousui/dtrack/internal/core/profile"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// Client は PostgREST で公開された API を呼び出すクライアントです。
// profile.Gateway と daterange.Source を実装します。
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient は Client を生成します。timeout が 0 以下の場合は既定値を使います。
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// ResponseError は API が 2xx 以外を返したことを表します。
type ResponseError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("postgrest: %s failed status=%d body=%s", e.Path, e.StatusCode, e.Body)
}

type employeeRow struct {
	ID        int64    `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
}

type onboardRequest struct {
	IDToken string `json:"id_token"`
}

type activeRangeRow struct {
	Values []string `json:"values"`
}

// LookupCurrentEmployee は current_employee から認証済み利用者の社員レコードを取得します。
func (c *Client) LookupCurrentEmployee(ctx context.Context, credential string) (*profile.EmployeeRecord, error) {
	query := url.Values{}
	query.Set("select", "id,first_name,last_name,roles")

	var rows []employeeRow
	if err := c.getJSON(ctx, "/current_employee", query, credential, &rows); err != nil {
		var respErr *ResponseError
		if errors.As(err, &respErr) {
			return nil, &profile.LookupError{StatusCode: respErr.StatusCode, Body: respErr.Body}
		}
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	return &profile.EmployeeRecord{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Roles:     row.Roles,
	}, nil
}

// Onboard は rpc/onboard を呼び出して社員レコードを作成します。
func (c *Client) Onboard(ctx context.Context, credential string) error {
	raw, err := json.Marshal(onboardRequest{IDToken: credential})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/rpc/onboard", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	setJSONHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("postgrest: onboard: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return &ResponseError{Path: "/rpc/onboard", StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ActiveRanges は rpc/daterange_active から粒度ごとの実績期間を取得します。
// filter は dims と dimensions->>キー の条件として渡します。
func (c *Client) ActiveRanges(ctx context.Context, credential string, g daterange.Granularity, filter daterange.Filter) ([]string, error) {
	key, ids, err := filter.Dimension()
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("select", fmt.Sprintf("values:%ss", g))
	if key != "" {
		query.Set("dims", "eq.{"+key+"}")
		if len(ids) == 1 {
			query.Set("dimensions->>"+key, "eq."+ids[0])
		} else {
			query.Set("dimensions->>"+key, "in.("+strings.Join(ids, ",")+")")
		}
	}

	var rows []activeRangeRow
	if err := c.getJSON(ctx, "/rpc/daterange_active", query, credential, &rows); err != nil {
		return nil, err
	}

	var values []string
	for _, row := range rows {
		values = append(values, row.Values...)
	}
	return values, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, credential string, out any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	setJSONHeaders(req)
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("postgrest: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return &ResponseError{Path: path, StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("postgrest: decode %s: %w", path, err)
	}
	return nil
}

func setJSONHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return string(b)
}
