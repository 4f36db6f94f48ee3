package reconcile

import (
	"sort"
	"strings"
	"time"

	"taruvae-orders/internal/models"
)

// AggregateCustomers folds a list of orders into one summary per
// distinct customer email (normalized). Orders without a customer
// email are skipped. Output is sorted by last order date descending,
// ties broken by email for determinism.
func AggregateCustomers(orders []models.Order) []models.CustomerSummary {
	type bucket struct {
		summary  models.CustomerSummary
		lastSeen time.Time
	}

	buckets := make(map[string]*bucket)
	var emails []string

	for _, o := range orders {
		if o.Customer == nil {
			continue
		}
		email := NormalizeEmail(o.Customer.Email)
		if email == "" {
			continue
		}

		b, ok := buckets[email]
		if !ok {
			b = &bucket{summary: models.CustomerSummary{Email: email}}
			buckets[email] = b
			emails = append(emails, email)
		}

		b.summary.TotalOrders++
		b.summary.TotalSpent += o.Total

		// Name and last order date follow the most recent order.
		when := ParseOrderDate(o.OrderDate)
		if b.summary.TotalOrders == 1 || when.After(b.lastSeen) {
			b.lastSeen = when
			b.summary.LastOrderDate = o.OrderDate
			b.summary.Name = customerName(o.Customer)
		}
	}

	out := make([]models.CustomerSummary, 0, len(buckets))
	for _, email := range emails {
		out = append(out, buckets[email].summary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti := buckets[out[i].Email].lastSeen
		tj := buckets[out[j].Email].lastSeen
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].Email < out[j].Email
	})
	return out
}

func customerName(c *models.Customer) string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return "Guest Customer"
	}
	return name
}
