package catalog

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/magicesim/storefront/services/cache"
	"github.com/magicesim/storefront/services/monitoring/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	queries   []esimstore.PlanQuery
	unlimited []string
	data      *esimstore.CatalogData
	plan      *esimstore.UnlimitedPlan
	err       error
}

func (f *fakeSource) ListPlans(_ context.Context, _ models.RequestContext, q esimstore.PlanQuery) (*esimstore.CatalogData, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeSource) GetUnlimitedPlan(_ context.Context, _ models.RequestContext, name string) (*esimstore.UnlimitedPlan, error) {
	f.unlimited = append(f.unlimited, name)
	if f.err != nil {
		return nil, f.err
	}
	return f.plan, nil
}

func newTestService(src *fakeSource) *CatalogService {
	return NewCatalogService(src, cache.NewMemoryStore(time.Minute), time.Minute, testNormalizer(), logging.NewDiscardLogger())
}

func TestListPlansQueriesAndCaches(t *testing.T) {
	src := &fakeSource{data: &esimstore.CatalogData{PackageList: []esimstore.Package{nigeriaPackage()}}}
	svc := newTestService(src)
	ctx := context.Background()

	cards, err := svc.ListPlans(ctx, models.RequestContext{}, ScopeSingle, "NG")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "CKH491", cards[0].PackageCode)

	_, err = svc.ListPlans(ctx, models.RequestContext{}, ScopeSingle, "NG")
	require.NoError(t, err)
	require.Len(t, src.queries, 1)
	assert.Equal(t, "NG", src.queries[0].LocationCode)
}

func TestListPlansScopeQueries(t *testing.T) {
	region := nigeriaPackage()
	region.Slug = "AF-3_7"
	src := &fakeSource{data: &esimstore.CatalogData{PackageList: []esimstore.Package{region}}}
	svc := newTestService(src)

	cards, err := svc.ListPlans(context.Background(), models.RequestContext{}, ScopeRegion, "AF")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "1 Country", cards[0].CoverageLabel)

	_, err = svc.ListPlans(context.Background(), models.RequestContext{}, ScopeGlobal, "")
	require.NoError(t, err)

	require.Len(t, src.queries, 2)
	assert.Equal(t, "!RG", src.queries[0].LocationCode)
	assert.Equal(t, "!GL", src.queries[1].LocationCode)
}

func TestListPlansRequiresLocation(t *testing.T) {
	src := &fakeSource{}
	_, err := newTestService(src).ListPlans(context.Background(), models.RequestContext{}, ScopeSingle, "  ")
	assert.ErrorIs(t, err, models.ErrValidationFailure)
	assert.Empty(t, src.queries)
}

func TestListPlansNoMatches(t *testing.T) {
	src := &fakeSource{data: &esimstore.CatalogData{PackageList: []esimstore.Package{nigeriaPackage()}}}
	_, err := newTestService(src).ListPlans(context.Background(), models.RequestContext{}, ScopeSingle, "KE")
	assert.ErrorIs(t, err, models.ErrEmptyCatalog)
}

func TestListPlansUpstreamFailure(t *testing.T) {
	src := &fakeSource{err: models.NewAPIError(models.ErrorKindNetworkFailure, http.StatusBadGateway, "bad gateway")}
	_, err := newTestService(src).ListPlans(context.Background(), models.RequestContext{}, ScopeSingle, "NG")
	assert.ErrorIs(t, err, models.ErrNetworkFailure)
}

func TestPlanDetails(t *testing.T) {
	src := &fakeSource{data: &esimstore.CatalogData{Standard: []esimstore.Package{nigeriaPackage()}}}
	got, err := newTestService(src).PlanDetails(context.Background(), models.RequestContext{}, "CKH491", ScopeSingle, "NG")
	require.NoError(t, err)
	assert.Equal(t, "Nigeria", got.CoverageLabel)
	require.Len(t, src.queries, 1)
	assert.Equal(t, "CKH491", src.queries[0].PackageCode)
}

func TestUnlimitedDetailsCachesRoaming(t *testing.T) {
	plan := unlimitedPlan()
	plan.RoamingEnabled = []esimstore.CountryCoverage{}
	src := &fakeSource{plan: &plan}
	svc := newTestService(src)

	for i := 0; i < 2; i++ {
		got, err := svc.UnlimitedDetails(context.Background(), models.RequestContext{}, plan.Name, "", "")
		require.NoError(t, err)
		assert.Empty(t, got.Countries)
		assert.Equal(t, "Nigeria", got.CoverageLabel)
	}
	assert.Len(t, src.unlimited, 1)
}

func TestWarmBypassesAndRefillsCache(t *testing.T) {
	src := &fakeSource{data: &esimstore.CatalogData{PackageList: []esimstore.Package{nigeriaPackage()}}}
	svc := newTestService(src)
	ctx := context.Background()

	_, err := svc.ListPlans(ctx, models.RequestContext{}, ScopeSingle, "NG")
	require.NoError(t, err)
	require.NoError(t, svc.Warm(ctx, ScopeSingle, "NG"))
	require.Len(t, src.queries, 2)

	_, err = svc.ListPlans(ctx, models.RequestContext{}, ScopeSingle, "NG")
	require.NoError(t, err)
	assert.Len(t, src.queries, 2)

	require.NoError(t, svc.Warm(ctx, ScopeGlobal, ""))
	assert.Equal(t, "!GL", src.queries[2].LocationCode)
}
