package orders

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/magicesim/storefront/services/format"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func TestRecordFromPayment(t *testing.T) {
	r := RecordFromPayment(esimstore.Payment{
		ID:                   40,
		Price:                "10.5",
		Currency:             "USD",
		Status:               "pending",
		DateCreated:          "2025-01-10T11:00:00Z",
		ExpiryDatetime:       "2025-01-10T13:00:00.000Z",
		DatePaid:             "",
		RefID:                "REF40",
		GatewayTransactionID: "TX-123",
	})

	assert.Equal(t, StatusPending, r.Status)
	assert.True(t, r.Price.Equal(decimal.RequireFromString("10.50")))
	assert.Equal(t, int64(1050), r.PriceMinorUnits)
	assert.Equal(t, time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC), r.CreatedAt)
	require.NotNil(t, r.ExpiresAt)
	assert.Nil(t, r.PaidAt)

	bad := RecordFromPayment(esimstore.Payment{Price: "abc", ExpiryDatetime: "soon"})
	assert.True(t, bad.Price.IsZero())
	assert.Nil(t, bad.ExpiresAt)
	assert.True(t, bad.CreatedAt.IsZero())
}

func TestBuildRowsSortsAndBadges(t *testing.T) {
	records := []OrderRecord{
		{ID: 1, Status: StatusCompleted, CreatedAt: now.Add(-3 * time.Hour), Price: decimal.NewFromInt(10), CurrencyCode: "USD"},
		{ID: 2, Status: StatusPending, CreatedAt: now.Add(-time.Hour), ExpiresAt: at(now.Add(90 * time.Second)), GatewayTransactionID: "ABCDEFGHIJKLMNOP"},
		{ID: 3, Status: StatusFailed, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: at(now.Add(-time.Minute))},
	}

	rows := BuildRows(records, now, time.UTC)
	require.Len(t, rows, 3)

	var ids []int64
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]int64{2, 3, 1}, ids); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(1), records[0].ID)

	assert.Equal(t, "bg-warning", rows[0].BadgeClass)
	assert.Equal(t, "bg-danger", rows[1].BadgeClass)
	assert.Equal(t, "bg-success", rows[2].BadgeClass)

	assert.Equal(t, "ABCDEFGHIJ...", rows[0].TransactionLabel)
	assert.Equal(t, "1m 30s", rows[0].CountdownLabel)
	assert.True(t, rows[0].Live)

	assert.Equal(t, format.Expired, rows[1].CountdownLabel)
	assert.False(t, rows[1].Live)

	assert.Equal(t, "10.00 USD", rows[2].PriceLabel)
	assert.Equal(t, "10 Jan. 9:00 AM", rows[2].CreatedLabel)
	assert.Equal(t, format.Expired, rows[2].CountdownLabel)
}

func TestBuildRowsInLocation(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	rows := BuildRows([]OrderRecord{{ID: 1, CreatedAt: time.Date(2024, 12, 23, 21, 5, 0, 0, time.UTC)}}, now, lagos)
	assert.Equal(t, "23 Dec. 10:05 PM", rows[0].CreatedLabel)

	rows = BuildRows([]OrderRecord{{ID: 2}}, now, nil)
	assert.Equal(t, format.InvalidDate, rows[0].CreatedLabel)
}

func TestStatusBadgeClass(t *testing.T) {
	assert.Equal(t, "warning", ParseStatus(" pending ").BadgeClass())
	assert.Equal(t, "danger", StatusFailed.BadgeClass())
	assert.Equal(t, "success", Status("REFUNDED").BadgeClass())
}
