package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"posbackend/internal/model"
	"posbackend/internal/repository"
	"posbackend/internal/tax"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TaxCatalog loads the rate and exemption configuration of a business and
// keeps it in memory until it expires or is invalidated by an admin write.
type TaxCatalog interface {
	Load(ctx context.Context, businessID uuid.UUID) (tax.Catalog, error)
	Invalidate(businessID uuid.UUID)
}

type taxCatalog struct {
	rateRepo      repository.TaxRateRepository
	exemptionRepo repository.TaxExemptionRepository
	cache         *gocache.Cache
	group         singleflight.Group
	log           *zap.SugaredLogger

	mu          sync.Mutex
	generations map[uuid.UUID]uint64 // bumped by Invalidate
}

func NewTaxCatalog(
	rateRepo repository.TaxRateRepository,
	exemptionRepo repository.TaxExemptionRepository,
	ttl time.Duration,
	log *zap.SugaredLogger,
) TaxCatalog {
	return &taxCatalog{
		rateRepo:      rateRepo,
		exemptionRepo: exemptionRepo,
		cache:         gocache.New(ttl, 2*ttl),
		log:           log,
		generations:   make(map[uuid.UUID]uint64),
	}
}

func catalogKey(businessID uuid.UUID) string {
	return "tax_catalog:" + businessID.String()
}

// Load returns the cached catalog, reading it from the store on a miss.
// Concurrent misses for the same business share one read. A read that was
// started before an Invalidate is returned to its callers but never cached.
func (c *taxCatalog) Load(ctx context.Context, businessID uuid.UUID) (tax.Catalog, error) {
	key := catalogKey(businessID)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(tax.Catalog), nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		gen := c.generation(businessID)

		// shared by every waiter, so one caller going away must not cancel it
		catalog, err := c.fetch(context.WithoutCancel(ctx), businessID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		current := c.generations[businessID] == gen
		if current {
			c.cache.SetDefault(key, catalog)
		}
		c.mu.Unlock()

		c.log.Debugw("tax catalog loaded",
			"business_id", businessID,
			"rates", len(catalog.Rates),
			"exemptions", len(catalog.Exemptions),
			"cached", current,
		)
		return catalog, nil
	})
	if err != nil {
		return tax.Catalog{}, err
	}
	return v.(tax.Catalog), nil
}

// Invalidate drops the cached entry and detaches any read in flight, so the
// next Load goes to the store.
func (c *taxCatalog) Invalidate(businessID uuid.UUID) {
	key := catalogKey(businessID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[businessID]++
	c.group.Forget(key)
	c.cache.Delete(key)
}

func (c *taxCatalog) generation(businessID uuid.UUID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[businessID]
}

func (c *taxCatalog) fetch(ctx context.Context, businessID uuid.UUID) (tax.Catalog, error) {
	rates, err := c.rateRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return tax.Catalog{}, fmt.Errorf("failed to load tax rates: %w", err)
	}

	exemptions, err := c.exemptionRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return tax.Catalog{}, fmt.Errorf("failed to load tax exemptions: %w", err)
	}

	catalog := tax.Catalog{
		Rates:      make([]tax.Rate, 0, len(rates)),
		Exemptions: make([]tax.Exemption, 0, len(exemptions)),
	}
	for _, r := range rates {
		catalog.Rates = append(catalog.Rates, toTaxRate(r))
	}
	for _, e := range exemptions {
		catalog.Exemptions = append(catalog.Exemptions, toTaxExemption(e))
	}
	return catalog, nil
}

// --- Mapping ---

func toTaxRate(r model.TaxRate) tax.Rate {
	return tax.Rate{
		ID:         r.ID.String(),
		Name:       r.Name,
		Rate:       r.Rate,
		IsActive:   r.IsActive,
		IsCompound: r.IsCompound,
		SortOrder:  r.SortOrder,
	}
}

func toTaxExemption(e model.TaxExemption) tax.Exemption {
	ex := tax.Exemption{
		ID:       e.ID.String(),
		Type:     tax.ExemptionType(e.ExemptionType),
		EntityID: e.EntityID,
		IsActive: e.IsActive,
	}
	if e.TaxRateID != nil {
		id := e.TaxRateID.String()
		ex.TaxRateID = &id
	}
	return ex
}
