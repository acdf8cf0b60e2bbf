package billing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// RenderCSV serializes a snapshot to a two-column Metric,Value CSV for the
// admin billing export. encoding/csv quotes embedded commas and quotes.
func RenderCSV(snap *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Metric", "Value"},
		{"Period Start", formatPeriod(snap.PeriodStart)},
		{"Total Users", strconv.FormatInt(snap.TotalUsers, 10)},
		{"Premium Users", strconv.FormatInt(snap.PremiumUsers, 10)},
		{"Total Revenue", formatAmount(snap.TotalRevenue)},
		{"Coupon Usage", strconv.FormatInt(snap.CouponUsage, 10)},
		{"Total Savings", formatAmount(snap.TotalSavings)},
		{"Active Subscriptions", strconv.FormatInt(snap.ActiveSubscriptions, 10)},
		{"Total Profit", formatAmount(snap.TotalProfit)},
		{"Average Revenue Per User", formatAmount(snap.AverageRevenuePerUser)},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPeriod(t time.Time) string {
	if t.IsZero() {
		return "all time"
	}
	return t.Format(time.DateOnly)
}
