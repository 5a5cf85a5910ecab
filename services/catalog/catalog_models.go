package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SellerESIMAccess = "esimaccess"
	SellerESIMGo     = "esimgo"
)

// Scope is how the shopper reached a plan: one country, a region, or the
// global list. It decides the coverage label and the card image.
type Scope string

const (
	ScopeSingle Scope = "single"
	ScopeRegion Scope = "region"
	ScopeGlobal Scope = "global"
)

func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single", "country", "local":
		return ScopeSingle, nil
	case "region", "regional":
		return ScopeRegion, nil
	case "global":
		return ScopeGlobal, nil
	}
	return "", fmt.Errorf("unknown plan scope %q", s)
}

// PlanSummary is the render-ready shape shared by both providers.
type PlanSummary struct {
	PackageCode     string           `json:"package_code"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Provider        string           `json:"provider"`
	CoverageLabel   string           `json:"coverage_label"`
	ImageURL        string           `json:"image_url"`
	DataVolumeBytes int64            `json:"data_volume_bytes"`
	DurationDays    int              `json:"duration_days"`
	Price           decimal.Decimal  `json:"price"`
	PriceMinorUnits int64            `json:"price_minor_units"`
	CurrencyCode    string           `json:"currency_code"`
	SupportsSMS     bool             `json:"supports_sms"`
	SupportsTopUp   bool             `json:"supports_top_up"`
	AutoStart       bool             `json:"auto_start"`
	Countries       []CountryNetwork `json:"countries"`
	Networks        NetworkGroups    `json:"networks"`

	PriceLabel    string `json:"price_label"`
	VolumeLabel   string `json:"volume_label"`
	DurationLabel string `json:"duration_label"`
	PlanTypeLabel string `json:"plan_type_label"`
	TopUpLabel    string `json:"top_up_label"`
}

type CountryNetwork struct {
	ISOCode      string        `json:"iso_code"`
	CountryName  string        `json:"country_name"`
	FlagURL      string        `json:"flag_url"`
	NetworkTypes NetworkGroups `json:"network_types"`
}
