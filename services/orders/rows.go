package orders

import (
	"fmt"
	"sort"
	"time"

	"github.com/magicesim/storefront/services/format"
)

const transactionLabelLimit = 10

func formatStamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return format.InvalidDate
	}
	return format.Clock12(t.In(loc))
}

// CountdownLabel is the text shown for an expiry at now. Orders without an
// expiry are treated as expired.
func CountdownLabel(expiresAt *time.Time, now time.Time) (string, bool) {
	if expiresAt == nil {
		return format.Expired, false
	}
	left := expiresAt.Sub(now)
	if left <= 0 {
		return format.Expired, false
	}
	return format.Countdown(left), true
}

// BuildRows renders records newest first. records is not reordered.
func BuildRows(records []OrderRecord, now time.Time, loc *time.Location) []OrderRow {
	if loc == nil {
		loc = time.UTC
	}

	sorted := make([]OrderRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	rows := make([]OrderRow, 0, len(sorted))
	for _, r := range sorted {
		countdown, live := CountdownLabel(r.ExpiresAt, now)
		row := OrderRow{
			ID:               r.ID,
			ReferenceID:      r.ReferenceID,
			TransactionID:    r.GatewayTransactionID,
			TransactionLabel: format.Truncate(r.GatewayTransactionID, transactionLabelLimit),
			PriceLabel:       fmt.Sprintf("%s %s", format.Currency(r.Price), r.CurrencyCode),
			CreatedLabel:     formatStamp(r.CreatedAt, loc),
			Status:           r.Status,
			BadgeClass:       "bg-" + r.Status.BadgeClass(),
			CountdownLabel:   countdown,
			Live:             live,
			ExpiresAt:        r.ExpiresAt,
			PaymentGateway:   r.PaymentGateway,
			PaymentMethod:    r.PaymentMethod,
			PaymentURL:       r.PaymentURL,
			PaymentAddress:   r.PaymentAddress,
			ESIMPlanLabel:    r.ESIMPlanLabel,
		}
		if r.ExpiresAt != nil {
			row.ExpiryLabel = formatStamp(*r.ExpiresAt, loc)
		}
		if r.PaidAt != nil {
			row.PaidLabel = formatStamp(*r.PaidAt, loc)
		}
		rows = append(rows, row)
	}
	return rows
}
