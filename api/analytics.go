package api

import (
	"context"
	"net/url"
)

func fyQuery(financialYear string) url.Values {
	return url.Values{"financial_year": {financialYear}}
}

// FinancialYearSummary returns total sales and quantity for one financial year.
func (c *Client) FinancialYearSummary(ctx context.Context, financialYear string) (*FinancialYearSummary, error) {
	var resp FinancialYearSummary
	if err := c.get(ctx, "/analytics/financial-year", fyQuery(financialYear), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProductWiseSales returns sales per part number, largest first.
func (c *Client) ProductWiseSales(ctx context.Context, financialYear string) ([]ProductSales, error) {
	var rows []ProductSales
	if err := c.get(ctx, "/analytics/product-wise", fyQuery(financialYear), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CustomerWiseSales returns sales per customer, largest first.
func (c *Client) CustomerWiseSales(ctx context.Context, financialYear string) ([]CustomerSales, error) {
	var rows []CustomerSales
	if err := c.get(ctx, "/analytics/customer-wise", fyQuery(financialYear), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
