package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	accountweb "github.com/amirasaad/strides/webapi/account"
	"github.com/amirasaad/strides/webapi/common"
	transactionweb "github.com/amirasaad/strides/webapi/transaction"
)

// doer is satisfied by *http.Client.
type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// client talks to the Strides HTTP API.
type client struct {
	baseURL string
	http    doer
	token   string
}

func newClient(baseURL string, h doer) *client {
	if h == nil {
		h = http.DefaultClient
	}
	return &client{baseURL: baseURL, http: h}
}

// apiError is a problem details response.
type apiError struct {
	common.ProblemDetails
}

func (e *apiError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%d): %s", e.Title, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s (%d)", e.Title, e.Status)
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint: errcheck
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{}
		if err := json.Unmarshal(raw, &apiErr.ProblemDetails); err != nil || apiErr.Title == "" {
			apiErr.Title = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	if out == nil {
		return nil
	}
	envelope := common.Response{Data: out}
	return json.Unmarshal(raw, &envelope)
}

func (c *client) login(ctx context.Context, email, password string) error {
	var token struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, &token)
	if err != nil {
		return err
	}
	if token.AccessToken == "" {
		return errors.New("login returned no token")
	}
	c.token = token.AccessToken
	return nil
}

func (c *client) accounts(ctx context.Context) ([]accountweb.AccountDTO, error) {
	var out []accountweb.AccountDTO
	return out, c.do(ctx, http.MethodGet, "/accounts", nil, &out)
}

func (c *client) transactions(ctx context.Context, accountID string) ([]transactionweb.TransactionDTO, error) {
	path := "/transactions"
	if accountID != "" {
		path += "?account_id=" + url.QueryEscape(accountID)
	}
	var out []transactionweb.TransactionDTO
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func (c *client) analysis(ctx context.Context, accountID string) (*accountweb.CreditAnalysisDTO, error) {
	var out accountweb.CreditAnalysisDTO
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID)+"/credit-analysis", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
