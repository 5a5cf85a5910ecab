package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/magicesim/storefront/services/format"
	"github.com/magicesim/storefront/utils"
	"github.com/shopspring/decimal"
)

const (
	defaultCurrency = "USD"
	unlimitedVolume = "Unlimited"

	planTypeDataAndSMS = "Data and SMS"
	planTypeDataOnly   = "Data Only"
	topUpAvailable     = "Available"
	topUpUnavailable   = "Not Available"

	smsSupported   = 1
	topUpSupported = 2

	// Provider prices are quoted in 1/10000 of the currency unit.
	rawPriceScale = -4
)

type Options struct {
	MarkupFactor          decimal.Decimal
	UnlimitedMarkupFactor decimal.Decimal
	FlagCDNURL            string
	RegionImagePath       string
	GlobalImage           string
}

func OptionsFromConfig(c *utils.Config) Options {
	return Options{
		MarkupFactor:          decimal.NewFromFloat(c.PriceMarkupFactor),
		UnlimitedMarkupFactor: decimal.NewFromFloat(c.UnlimitedMarkupFactor),
		FlagCDNURL:            strings.TrimRight(c.FlagCDNURL, "/"),
		RegionImagePath:       strings.TrimRight(c.RegionImagePath, "/"),
		GlobalImage:           c.GlobalImage,
	}
}

// Normalizer turns raw provider plans into PlanSummary values. It holds no
// state beyond its options and is safe for concurrent use.
type Normalizer struct {
	opts Options
}

func NewNormalizer(opts Options) *Normalizer {
	if opts.MarkupFactor.IsZero() {
		opts.MarkupFactor = decimal.NewFromInt(2)
	}
	if opts.UnlimitedMarkupFactor.IsZero() {
		opts.UnlimitedMarkupFactor = decimal.NewFromInt(1)
	}
	return &Normalizer{opts: opts}
}

func (n *Normalizer) flag(iso string) string {
	return fmt.Sprintf("%s/%s.png", n.opts.FlagCDNURL, strings.ToLower(iso))
}

func (n *Normalizer) regionImage(code string) string {
	return fmt.Sprintf("%s/%s.png", n.opts.RegionImagePath, strings.ToLower(code))
}

func (n *Normalizer) globalImage() string {
	return fmt.Sprintf("%s/%s", n.opts.RegionImagePath, n.opts.GlobalImage)
}

// RetailPrice applies the markup to a provider price in 1/10000 units.
func (n *Normalizer) RetailPrice(raw int64) decimal.Decimal {
	return decimal.New(raw, rawPriceScale).Mul(n.opts.MarkupFactor).Round(2)
}

// Standard normalizes a plan from the standard/regional provider.
func (n *Normalizer) Standard(pkg esimstore.Package, scope Scope, locationCode string) (PlanSummary, error) {
	if pkg.Duration < 1 {
		return PlanSummary{}, NewPlanError(pkg.PackageCode, fmt.Sprintf("duration %d", pkg.Duration))
	}
	if pkg.Price < 0 {
		return PlanSummary{}, NewPlanError(pkg.PackageCode, fmt.Sprintf("price %d", pkg.Price))
	}

	price := n.RetailPrice(pkg.Price)
	currency := pkg.CurrencyCode
	if currency == "" {
		currency = defaultCurrency
	}

	all := newGroupBuilder()
	countries := make([]CountryNetwork, 0, len(pkg.LocationNetworkList))
	for _, location := range pkg.LocationNetworkList {
		own := newGroupBuilder()
		for _, operator := range location.OperatorList {
			own.add(operator.NetworkType, operator.OperatorName)
			all.add(operator.NetworkType, operator.OperatorName)
		}
		countries = append(countries, CountryNetwork{
			ISOCode:      location.LocationCode,
			CountryName:  location.LocationName,
			FlagURL:      n.flag(location.LocationCode),
			NetworkTypes: own.build(),
		})
	}

	summary := PlanSummary{
		PackageCode:     pkg.PackageCode,
		Name:            pkg.Name,
		Description:     pkg.Description,
		Provider:        SellerESIMAccess,
		DataVolumeBytes: pkg.Volume,
		DurationDays:    pkg.Duration,
		Price:           price,
		PriceMinorUnits: price.Shift(2).IntPart(),
		CurrencyCode:    currency,
		SupportsSMS:     pkg.SmsStatus == smsSupported,
		SupportsTopUp:   pkg.SupportTopUpType == topUpSupported,
		Countries:       countries,
		Networks:        all.build(),
		VolumeLabel:     format.ByteVolume(pkg.Volume),
		DurationLabel:   format.DurationDays(pkg.Duration),
	}

	switch scope {
	case ScopeRegion:
		summary.CoverageLabel = format.CountryCount(len(countries))
		summary.ImageURL = n.regionImage(locationCode)
	case ScopeGlobal:
		summary.CoverageLabel = format.CountryCount(len(countries))
		summary.ImageURL = n.globalImage()
	default:
		if len(countries) > 0 {
			summary.CoverageLabel = countries[0].CountryName
			summary.ImageURL = countries[0].FlagURL
		} else {
			summary.CoverageLabel = strings.ToUpper(locationCode)
			summary.ImageURL = n.flag(locationCode)
		}
	}

	n.label(&summary)
	return summary, nil
}

// Unlimited normalizes an unlimited plan. fallbackPrice is the price the
// shopper saw on the card, used when the provider sends none.
func (n *Normalizer) Unlimited(plan esimstore.UnlimitedPlan, fallbackPrice string, currency string) (PlanSummary, error) {
	if plan.Duration < 1 {
		return PlanSummary{}, NewPlanError(plan.Name, fmt.Sprintf("duration %d", plan.Duration))
	}

	price, ok := format.ToDecimal(plan.FormattedPrice.String())
	if ok {
		price = price.Mul(n.opts.UnlimitedMarkupFactor)
	} else if price, ok = format.ToDecimal(fallbackPrice); !ok {
		price = decimal.Zero
	}
	price = price.Round(2)
	if price.IsNegative() {
		return PlanSummary{}, NewPlanError(plan.Name, "price "+price.String())
	}
	if currency == "" {
		currency = defaultCurrency
	}

	coverage := plan.Countries
	if plan.RoamingEnabled != nil {
		coverage = plan.RoamingEnabled
	}

	all := newGroupBuilder()
	countries := make([]CountryNetwork, 0, len(coverage))
	for _, item := range coverage {
		own := newGroupBuilder()
		for _, network := range item.Networks {
			if network == nil {
				continue
			}
			name := ""
			if network.Name != nil {
				name = *network.Name
			}
			for _, speed := range network.Speeds {
				own.add(speed, name)
				all.add(speed, name)
			}
		}
		countries = append(countries, CountryNetwork{
			ISOCode:      item.Country.ISO,
			CountryName:  item.Country.Name,
			FlagURL:      n.flag(item.Country.ISO),
			NetworkTypes: own.build(),
		})
	}

	volume := plan.FormattedVolume
	if strings.TrimSpace(volume) == "" {
		volume = unlimitedVolume
	}

	summary := PlanSummary{
		PackageCode:     plan.Name,
		Name:            plan.Name,
		Description:     plan.Description,
		Provider:        SellerESIMGo,
		ImageURL:        plan.ImageURL,
		DurationDays:    plan.Duration,
		Price:           price,
		PriceMinorUnits: price.Shift(2).IntPart(),
		CurrencyCode:    currency,
		AutoStart:       plan.Autostart,
		Countries:       countries,
		Networks:        all.build(),
		VolumeLabel:     volume,
		DurationLabel:   format.DurationDays(plan.Duration),
	}

	if len(plan.Countries) == 1 {
		summary.CoverageLabel = plan.Countries[0].Country.Name
	} else {
		summary.CoverageLabel = format.CountryCount(len(plan.Countries))
	}
	if summary.ImageURL == "" && len(plan.Countries) > 0 {
		summary.ImageURL = n.flag(plan.Countries[0].Country.ISO)
	}

	n.label(&summary)
	return summary, nil
}

func (n *Normalizer) label(s *PlanSummary) {
	s.PriceLabel = fmt.Sprintf("%s %s", format.Currency(s.Price), s.CurrencyCode)
	s.PlanTypeLabel = planTypeDataOnly
	if s.SupportsSMS {
		s.PlanTypeLabel = planTypeDataAndSMS
	}
	s.TopUpLabel = topUpUnavailable
	if s.SupportsTopUp {
		s.TopUpLabel = topUpAvailable
	}
}

func slugPrefix(scope Scope, code string) string {
	switch scope {
	case ScopeRegion:
		return code + "-"
	case ScopeGlobal:
		return code
	default:
		return code + "_"
	}
}

// FilterAndSort keeps packages whose slug belongs to code under scope and
// orders them cheapest first. The input slice is not modified.
func FilterAndSort(pkgs []esimstore.Package, scope Scope, code string) []esimstore.Package {
	prefix := slugPrefix(scope, code)
	out := make([]esimstore.Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		if strings.HasPrefix(pkg.Slug, prefix) {
			out = append(out, pkg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price < out[j].Price
	})
	return out
}

// Listing builds the plan cards for one country, region or the global list.
// Rejected plans are returned alongside the cards so callers can log them.
func (n *Normalizer) Listing(pkgs []esimstore.Package, scope Scope, code string) ([]PlanSummary, []error, error) {
	var rejected []error
	cards := make([]PlanSummary, 0, len(pkgs))
	for _, pkg := range FilterAndSort(pkgs, scope, code) {
		summary, err := n.Standard(pkg, scope, code)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		cards = append(cards, summary)
	}
	if len(cards) == 0 {
		return nil, rejected, models.ErrEmptyCatalog
	}
	return cards, rejected, nil
}

// Details picks the plan shown in the details view: the cheapest standard
// plan, otherwise the first unlimited plan.
func (n *Normalizer) Details(data *esimstore.CatalogData, scope Scope, code string) (PlanSummary, error) {
	if data == nil {
		return PlanSummary{}, models.ErrEmptyCatalog
	}

	standard := make([]esimstore.Package, len(data.Standard))
	copy(standard, data.Standard)
	sort.SliceStable(standard, func(i, j int) bool {
		return standard[i].Price < standard[j].Price
	})

	var lastErr error
	for _, pkg := range standard {
		summary, err := n.Standard(pkg, scope, code)
		if err == nil {
			return summary, nil
		}
		lastErr = err
	}
	for _, plan := range data.Unlimited {
		summary, err := n.Unlimited(plan, "", "")
		if err == nil {
			return summary, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return PlanSummary{}, fmt.Errorf("%w: %w", models.ErrEmptyCatalog, lastErr)
	}
	return PlanSummary{}, models.ErrEmptyCatalog
}
