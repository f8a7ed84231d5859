package main

import (
	"fmt"
	"strconv"
	"time"

	"ebroker-go/internal/models"

	"github.com/go-resty/resty/v2"
)

// Client is a thin REST client for the broker API.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)

	return &Client{http: client}
}

type apiError struct {
	Error  string `json:"error"`
	Entity string `json:"entity,omitempty"`
}

// BuyEquity submits a buy operation.
func (c *Client) BuyEquity(traderID, equityID, quantity int, at time.Time) error {
	return c.postOperation("/traders/buy", map[string]string{
		"traderId": strconv.Itoa(traderID),
		"equityId": strconv.Itoa(equityID),
		"quantity": strconv.Itoa(quantity),
		"time":     at.Format(time.RFC3339),
	})
}

// SellEquity submits a sell operation.
func (c *Client) SellEquity(traderID, equityID, quantity int, at time.Time) error {
	return c.postOperation("/traders/sell", map[string]string{
		"traderId": strconv.Itoa(traderID),
		"equityId": strconv.Itoa(equityID),
		"quantity": strconv.Itoa(quantity),
		"time":     at.Format(time.RFC3339),
	})
}

// AddFunds submits a deposit.
func (c *Client) AddFunds(traderID int, amount float64) error {
	return c.postOperation("/traders/addfunds", map[string]string{
		"traderId": strconv.Itoa(traderID),
		"amount":   strconv.FormatFloat(amount, 'f', -1, 64),
	})
}

// GetTrader fetches one trader by id.
func (c *Client) GetTrader(id int) (*models.Trader, error) {
	var trader models.Trader
	if err := c.get(fmt.Sprintf("/traders/%d", id), &trader); err != nil {
		return nil, err
	}
	return &trader, nil
}

// ListTraders fetches all traders.
func (c *Client) ListTraders() ([]models.Trader, error) {
	var traders []models.Trader
	if err := c.get("/traders", &traders); err != nil {
		return nil, err
	}
	return traders, nil
}

// GetEquity fetches one equity by id.
func (c *Client) GetEquity(id int) (*models.Equity, error) {
	var equity models.Equity
	if err := c.get(fmt.Sprintf("/equities/%d", id), &equity); err != nil {
		return nil, err
	}
	return &equity, nil
}

// ListEquities fetches all equities.
func (c *Client) ListEquities() ([]models.Equity, error) {
	var equities []models.Equity
	if err := c.get("/equities", &equities); err != nil {
		return nil, err
	}
	return equities, nil
}

func (c *Client) postOperation(path string, params map[string]string) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetQueryParams(params).
		SetError(&apiErr).
		Post(path)
	if err != nil {
		return err
	}
	return checkResponse(resp, &apiErr)
}

func (c *Client) get(path string, out any) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetResult(out).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		return err
	}
	return checkResponse(resp, &apiErr)
}

func checkResponse(resp *resty.Response, apiErr *apiError) error {
	if !resp.IsError() {
		return nil
	}
	if apiErr.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status(), apiErr.Error)
	}
	return fmt.Errorf("request failed: %s", resp.Status())
}
