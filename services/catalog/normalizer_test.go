package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(Options{
		MarkupFactor:          decimal.NewFromInt(2),
		UnlimitedMarkupFactor: decimal.NewFromInt(1),
		FlagCDNURL:            "https://flagcdn.com/w320",
		RegionImagePath:       "/static/img/regions",
		GlobalImage:           "as.png",
	})
}

func strPtr(s string) *string { return &s }

func nigeriaPackage() esimstore.Package {
	return esimstore.Package{
		PackageCode:      "CKH491",
		Slug:             "NG_1_7",
		Name:             "Nigeria 1GB 7Days",
		Price:            15000,
		CurrencyCode:     "USD",
		Volume:           1 << 30,
		Duration:         7,
		SmsStatus:        1,
		SupportTopUpType: 2,
		LocationNetworkList: []esimstore.LocationNetwork{{
			LocationName: "Nigeria",
			LocationCode: "NG",
			OperatorList: []esimstore.Operator{
				{OperatorName: "mtn", NetworkType: "4G"},
				{OperatorName: "MTN", NetworkType: "4G"},
				{OperatorName: "airtel", NetworkType: "4G"},
				{OperatorName: "MTN", NetworkType: "5G"},
			},
		}},
	}
}

func TestStandardSingleCountry(t *testing.T) {
	got, err := testNormalizer().Standard(nigeriaPackage(), ScopeSingle, "NG")
	require.NoError(t, err)

	assert.Equal(t, "Nigeria", got.CoverageLabel)
	assert.Equal(t, "https://flagcdn.com/w320/ng.png", got.ImageURL)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("3.00")))
	assert.Equal(t, int64(300), got.PriceMinorUnits)
	assert.Equal(t, "3.00 USD", got.PriceLabel)
	assert.Equal(t, "1.0 GB", got.VolumeLabel)
	assert.Equal(t, "7 Days", got.DurationLabel)
	assert.Equal(t, "Data and SMS", got.PlanTypeLabel)
	assert.Equal(t, "Available", got.TopUpLabel)
	assert.Equal(t, SellerESIMAccess, got.Provider)

	want := NetworkGroups{
		{Type: "4G", Operators: []string{"Mtn", "Airtel"}},
		{Type: "5G", Operators: []string{"Mtn"}},
	}
	if diff := cmp.Diff(want, got.Networks); diff != "" {
		t.Errorf("networks mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, got.Countries, 1)
	if diff := cmp.Diff(want, got.Countries[0].NetworkTypes); diff != "" {
		t.Errorf("country networks mismatch (-want +got):\n%s", diff)
	}
}

func TestStandardCoverageCount(t *testing.T) {
	one := nigeriaPackage()
	two := nigeriaPackage()
	two.LocationNetworkList = append(two.LocationNetworkList, esimstore.LocationNetwork{
		LocationName: "Ghana",
		LocationCode: "GH",
	})

	n := testNormalizer()
	got, err := n.Standard(one, ScopeRegion, "AF")
	require.NoError(t, err)
	assert.Equal(t, "1 Country", got.CoverageLabel)
	assert.Equal(t, "/static/img/regions/af.png", got.ImageURL)

	got, err = n.Standard(two, ScopeGlobal, "GL")
	require.NoError(t, err)
	assert.Equal(t, "2 Countries", got.CoverageLabel)
	assert.Equal(t, "/static/img/regions/as.png", got.ImageURL)
}

func TestStandardDataOnlyWithoutNetworks(t *testing.T) {
	pkg := esimstore.Package{
		PackageCode: "P2",
		Price:       10000,
		Volume:      500 << 20,
		Duration:    1,
		LocationNetworkList: []esimstore.LocationNetwork{
			{LocationName: "Kenya", LocationCode: "KE"},
		},
	}

	got, err := testNormalizer().Standard(pkg, ScopeSingle, "KE")
	require.NoError(t, err)
	assert.Equal(t, "Data Only", got.PlanTypeLabel)
	assert.Equal(t, "Not Available", got.TopUpLabel)
	assert.Equal(t, "500 MB", got.VolumeLabel)
	assert.Equal(t, "1 Day", got.DurationLabel)
	assert.Equal(t, "USD", got.CurrencyCode)
	assert.Empty(t, got.Networks)
	assert.NotNil(t, got.Networks)
}

func TestStandardRejectsInvalidPlans(t *testing.T) {
	n := testNormalizer()

	zeroDays := nigeriaPackage()
	zeroDays.Duration = 0
	_, err := n.Standard(zeroDays, ScopeSingle, "NG")
	assert.ErrorIs(t, err, ErrInvalidPlan)

	negative := nigeriaPackage()
	negative.Price = -1
	_, err = n.Standard(negative, ScopeSingle, "NG")
	var planErr *PlanError
	require.True(t, errors.As(err, &planErr))
	assert.Equal(t, "CKH491", planErr.PackageCode)
}

func TestMarkupFactorFromOptions(t *testing.T) {
	n := NewNormalizer(Options{MarkupFactor: decimal.RequireFromString("1.5")})
	got, err := n.Standard(nigeriaPackage(), ScopeSingle, "NG")
	require.NoError(t, err)
	assert.Equal(t, "2.25", got.Price.StringFixed(2))
	assert.Equal(t, int64(225), got.PriceMinorUnits)
}

func unlimitedPlan() esimstore.UnlimitedPlan {
	return esimstore.UnlimitedPlan{
		Name:           "esim_UL_7D_NG_V2",
		FormattedPrice: "19.5",
		Duration:       7,
		ImageURL:       "https://cdn.example/ng.png",
		Autostart:      true,
		Countries: []esimstore.CountryCoverage{{
			Country: esimstore.Country{ISO: "NG", Name: "Nigeria"},
			Networks: []*esimstore.Network{
				{Name: strPtr("MTN"), Speeds: []string{"4G", "5G"}},
				nil,
				{Name: nil, Speeds: []string{"4G"}},
				{Name: strPtr("glo"), Speeds: nil},
			},
		}},
	}
}

func TestUnlimitedPlan(t *testing.T) {
	got, err := testNormalizer().Unlimited(unlimitedPlan(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "Nigeria", got.CoverageLabel)
	assert.Equal(t, "Unlimited", got.VolumeLabel)
	assert.Equal(t, "19.50 USD", got.PriceLabel)
	assert.Equal(t, int64(1950), got.PriceMinorUnits)
	assert.Equal(t, SellerESIMGo, got.Provider)
	assert.True(t, got.AutoStart)

	want := NetworkGroups{
		{Type: "4G", Operators: []string{"Mtn", "Unknown"}},
		{Type: "5G", Operators: []string{"Mtn"}},
	}
	if diff := cmp.Diff(want, got.Networks); diff != "" {
		t.Errorf("networks mismatch (-want +got):\n%s", diff)
	}
}

func TestUnlimitedPriceFallback(t *testing.T) {
	plan := unlimitedPlan()
	plan.FormattedPrice = ""

	n := testNormalizer()
	got, err := n.Unlimited(plan, "12.5", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "12.50 EUR", got.PriceLabel)

	got, err = n.Unlimited(plan, "", "")
	require.NoError(t, err)
	assert.Equal(t, "0.00 USD", got.PriceLabel)
}

func TestUnlimitedRoamingReplacesCountries(t *testing.T) {
	plan := unlimitedPlan()
	plan.Countries = append(plan.Countries, esimstore.CountryCoverage{
		Country: esimstore.Country{ISO: "GH", Name: "Ghana"},
	})
	plan.RoamingEnabled = []esimstore.CountryCoverage{{
		Country:  esimstore.Country{ISO: "FR", Name: "France"},
		Networks: []*esimstore.Network{{Name: strPtr("ORANGE"), Speeds: []string{"5G"}}},
	}}

	got, err := testNormalizer().Unlimited(plan, "", "")
	require.NoError(t, err)
	assert.Equal(t, "2 Countries", got.CoverageLabel)
	require.Len(t, got.Countries, 1)
	assert.Equal(t, "France", got.Countries[0].CountryName)
	assert.Equal(t, "https://flagcdn.com/w320/fr.png", got.Countries[0].FlagURL)

	ops, ok := got.Networks.Lookup("5G")
	require.True(t, ok)
	assert.Equal(t, []string{"Orange"}, ops)

	plan.RoamingEnabled = []esimstore.CountryCoverage{}
	got, err = testNormalizer().Unlimited(plan, "", "")
	require.NoError(t, err)
	assert.Empty(t, got.Countries)
	assert.Empty(t, got.Networks)
}

func TestFilterAndSort(t *testing.T) {
	pkgs := []esimstore.Package{
		{PackageCode: "c", Slug: "NG_3_30", Price: 30000},
		{PackageCode: "a", Slug: "NG_1_7", Price: 10000},
		{PackageCode: "x", Slug: "NGA-1_7", Price: 1},
		{PackageCode: "b", Slug: "NG_2_15", Price: 20000},
	}

	var codes []string
	for _, p := range FilterAndSort(pkgs, ScopeSingle, "NG") {
		codes = append(codes, p.PackageCode)
	}
	assert.Equal(t, []string{"a", "b", "c"}, codes)
	assert.Equal(t, "c", pkgs[0].PackageCode)

	region := FilterAndSort(pkgs, ScopeRegion, "NGA")
	require.Len(t, region, 1)
	assert.Equal(t, "x", region[0].PackageCode)

	assert.Len(t, FilterAndSort(pkgs, ScopeGlobal, "NG"), 4)
}

func TestListingEmptyCatalog(t *testing.T) {
	n := testNormalizer()

	_, _, err := n.Listing(nil, ScopeSingle, "NG")
	assert.ErrorIs(t, err, models.ErrEmptyCatalog)

	bad := nigeriaPackage()
	bad.Duration = 0
	_, rejected, err := n.Listing([]esimstore.Package{bad}, ScopeSingle, "NG")
	assert.ErrorIs(t, err, models.ErrEmptyCatalog)
	require.Len(t, rejected, 1)
	assert.ErrorIs(t, rejected[0], ErrInvalidPlan)
}

func TestDetails(t *testing.T) {
	n := testNormalizer()

	cheap := nigeriaPackage()
	cheap.PackageCode = "cheap"
	cheap.Price = 5000
	data := &esimstore.CatalogData{
		Standard:  []esimstore.Package{nigeriaPackage(), cheap},
		Unlimited: []esimstore.UnlimitedPlan{unlimitedPlan()},
	}
	got, err := n.Details(data, ScopeSingle, "NG")
	require.NoError(t, err)
	assert.Equal(t, "cheap", got.PackageCode)
	assert.Equal(t, "CKH491", data.Standard[0].PackageCode)

	got, err = n.Details(&esimstore.CatalogData{Unlimited: []esimstore.UnlimitedPlan{unlimitedPlan()}}, ScopeSingle, "NG")
	require.NoError(t, err)
	assert.Equal(t, SellerESIMGo, got.Provider)

	_, err = n.Details(&esimstore.CatalogData{}, ScopeSingle, "NG")
	assert.ErrorIs(t, err, models.ErrEmptyCatalog)
	assert.Equal(t, models.ErrorKindEmptyCatalog, models.KindOf(err))
}
