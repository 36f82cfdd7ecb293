// Package economic fetches government figures used by the liquidity view.
package economic

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultDebtURL is the Treasury FiscalData "debt to the penny" dataset.
const DefaultDebtURL = "https://api.fiscaldata.treasury.gov/services/api/fiscal_service/v2/accounting/od/debt_to_penny"

// Debt is the latest total public debt outstanding.
type Debt struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// DebtClient reads the latest debt record.
type DebtClient struct {
	URL    string
	client *resty.Client
}

func NewDebtClient(url string, timeout time.Duration) *DebtClient {
	if url == "" {
		url = DefaultDebtURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DebtClient{URL: url, client: resty.New().SetTimeout(timeout)}
}

type debtResponse struct {
	Data []struct {
		RecordDate string `json:"record_date"`
		TotalDebt  string `json:"tot_pub_debt_out_amt"`
	} `json:"data"`
}

// Latest returns the most recent record.
func (c *DebtClient) Latest(ctx context.Context) (*Debt, error) {
	var out debtResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sort":       "-record_date",
			"page[size]": "1",
			"fields":     "record_date,tot_pub_debt_out_amt",
		}).
		SetResult(&out).
		ForceContentType("application/json").
		Get(c.URL)
	if err != nil {
		return nil, fmt.Errorf("debt fetch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("debt fetch: status %d", resp.StatusCode())
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("debt fetch: no records")
	}

	rec := out.Data[0]
	amount, err := strconv.ParseFloat(rec.TotalDebt, 64)
	if err != nil {
		return nil, fmt.Errorf("parse debt amount %q: %w", rec.TotalDebt, err)
	}
	date, err := time.Parse("2006-01-02", rec.RecordDate)
	if err != nil {
		return nil, fmt.Errorf("parse record date %q: %w", rec.RecordDate, err)
	}
	return &Debt{Date: date, Amount: amount}, nil
}
