package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/magicesim/storefront/services/cache"
	"github.com/magicesim/storefront/services/monitoring/logging"
	"github.com/sirupsen/logrus"
)

const (
	regionQuery = "!RG"
	globalQuery = "!GL"

	cachePrefix = "catalog:"
)

// PlanSource is the part of the backend client the catalog reads from.
type PlanSource interface {
	ListPlans(ctx context.Context, rc models.RequestContext, q esimstore.PlanQuery) (*esimstore.CatalogData, error)
	GetUnlimitedPlan(ctx context.Context, rc models.RequestContext, name string) (*esimstore.UnlimitedPlan, error)
}

type CatalogService struct {
	source     PlanSource
	cache      cache.Store
	ttl        time.Duration
	normalizer *Normalizer
	logger     *logging.Logger
}

func NewCatalogService(source PlanSource, store cache.Store, ttl time.Duration, normalizer *Normalizer, logger *logging.Logger) *CatalogService {
	return &CatalogService{
		source:     source,
		cache:      store,
		ttl:        ttl,
		normalizer: normalizer,
		logger:     logger,
	}
}

func listQuery(scope Scope, code string) string {
	switch scope {
	case ScopeRegion:
		return regionQuery
	case ScopeGlobal:
		return globalQuery
	default:
		return code
	}
}

// fetch reads a catalog payload through the cache. Cache failures are logged
// and never fail the request.
func (s *CatalogService) fetch(ctx context.Context, rc models.RequestContext, q esimstore.PlanQuery) (*esimstore.CatalogData, error) {
	return s.load(ctx, rc, q, false)
}

func (s *CatalogService) load(ctx context.Context, rc models.RequestContext, q esimstore.PlanQuery, refresh bool) (*esimstore.CatalogData, error) {
	key := fmt.Sprintf("%splans:%s:%s:%s", cachePrefix, q.LocationCode, q.PackageCode, q.Type)

	if s.cache != nil && !refresh {
		var cached esimstore.CatalogData
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("catalog cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	data, err := s.source.ListPlans(ctx, rc, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("catalog cache write failed")
		}
	}
	return data, nil
}

func (s *CatalogService) logRejected(rejected []error) {
	for _, err := range rejected {
		s.logger.WithError(err).Warn("dropping plan")
	}
}

// ListPlans returns the plan cards for a country (scope single), a region
// or the global list, cheapest first.
func (s *CatalogService) ListPlans(ctx context.Context, rc models.RequestContext, scope Scope, code string) ([]PlanSummary, error) {
	code = strings.TrimSpace(code)
	if code == "" && scope != ScopeGlobal {
		return nil, models.NewAPIError(models.ErrorKindValidationFailure, http.StatusBadRequest, "location code is required")
	}

	data, err := s.fetch(ctx, rc, esimstore.PlanQuery{LocationCode: listQuery(scope, code)})
	if err != nil {
		return nil, err
	}

	cards, rejected, err := s.normalizer.Listing(data.PackageList, scope, code)
	s.logRejected(rejected)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"scope":         scope,
			"location_code": code,
		}).Info("no plans for location")
		return nil, err
	}
	return cards, nil
}

// Warm refetches a listing from the backend and rewrites its cache entry,
// so shoppers hit a warm cache for the lists everyone opens.
func (s *CatalogService) Warm(ctx context.Context, scope Scope, code string) error {
	rc := models.RequestContext{CorrelationID: "catalog-warm"}
	data, err := s.load(ctx, rc, esimstore.PlanQuery{LocationCode: listQuery(scope, code)}, true)
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"scope":         scope,
		"location_code": code,
		"packages":      len(data.PackageList),
	}).Debug("catalog warmed")
	return nil
}

// PlanDetails loads the details view for a package code.
func (s *CatalogService) PlanDetails(ctx context.Context, rc models.RequestContext, packageCode string, scope Scope, code string) (PlanSummary, error) {
	packageCode = strings.TrimSpace(packageCode)
	if packageCode == "" {
		return PlanSummary{}, models.NewAPIError(models.ErrorKindValidationFailure, http.StatusBadRequest, "package code is required")
	}

	data, err := s.fetch(ctx, rc, esimstore.PlanQuery{PackageCode: packageCode})
	if err != nil {
		return PlanSummary{}, err
	}

	summary, err := s.normalizer.Details(data, scope, code)
	if err != nil {
		s.logger.WithError(err).WithField("package_code", packageCode).Warn("no usable plan details")
		return PlanSummary{}, err
	}
	return summary, nil
}

// UnlimitedDetails loads an unlimited plan by name. price and currency are
// what the shopper saw on the card.
func (s *CatalogService) UnlimitedDetails(ctx context.Context, rc models.RequestContext, name, price, currency string) (PlanSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return PlanSummary{}, models.NewAPIError(models.ErrorKindValidationFailure, http.StatusBadRequest, "plan name is required")
	}

	key := cachePrefix + "unlimited:" + name
	var plan esimstore.UnlimitedPlan
	found := false
	if s.cache != nil {
		var err error
		found, err = s.cache.Get(ctx, key, &plan)
		if err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("catalog cache read failed")
			found = false
		}
	}

	if !found {
		fetched, err := s.source.GetUnlimitedPlan(ctx, rc, name)
		if err != nil {
			return PlanSummary{}, err
		}
		plan = *fetched
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, fetched, s.ttl); err != nil {
				s.logger.WithError(err).WithField("key", key).Warn("catalog cache write failed")
			}
		}
	}

	summary, err := s.normalizer.Unlimited(plan, price, currency)
	if err != nil {
		s.logger.WithError(err).Warn("dropping plan")
		return PlanSummary{}, fmt.Errorf("%w: %w", models.ErrEmptyCatalog, err)
	}
	return summary, nil
}
