package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"posbackend/internal/model"
	"posbackend/internal/repository"
	"posbackend/internal/tax"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- DTOs ---

type TaxRateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Rate        string `json:"rate" binding:"required"` // fraction "0.0825" or percentage "8.25%"
	IsActive    *bool  `json:"is_active"`               // defaults to true
	IsCompound  bool   `json:"is_compound"`
	SortOrder   int    `json:"sort_order"`
	Description string `json:"description"`
}

type TaxRateResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Rate        string `json:"rate"`
	RateDisplay string `json:"rate_display"`
	IsActive    bool   `json:"is_active"`
	IsCompound  bool   `json:"is_compound"`
	SortOrder   int    `json:"sort_order"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// TaxRateMutationResponse carries the configuration warnings in effect after a write.
type TaxRateMutationResponse struct {
	TaxRate  TaxRateResponse `json:"tax_rate"`
	Warnings []string        `json:"warnings"`
}

type TaxRateListResponse struct {
	Rates         []TaxRateResponse     `json:"rates"`
	Warnings      []string              `json:"warnings"`
	EffectiveRate EffectiveRateResponse `json:"effective_rate"`
}

type EffectiveRateResponse struct {
	Rate    string `json:"rate"`
	Display string `json:"display"`
}

type TaxExemptionRequest struct {
	ExemptionType string `json:"exemption_type" binding:"required,oneof=customer product category"`
	EntityID      string `json:"entity_id" binding:"required,max=100"`
	TaxRateID     string `json:"tax_rate_id"` // empty = exempt from every rate
	Reason        string `json:"reason"`
	IsActive      *bool  `json:"is_active"` // defaults to true
}

type TaxExemptionFilter struct {
	ExemptionType string
	EntityID      string
	Page          int
	Limit         int
}

type TaxExemptionResponse struct {
	ID            string  `json:"id"`
	ExemptionType string  `json:"exemption_type"`
	EntityID      string  `json:"entity_id"`
	TaxRateID     *string `json:"tax_rate_id"`
	TaxRateName   *string `json:"tax_rate_name"`
	Reason        string  `json:"reason"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     string  `json:"created_at"`
}

// --- Interface ---

// ConfigNotifier is told about every tax configuration change so connected
// terminals can refresh.
type ConfigNotifier interface {
	NotifyTaxConfigChanged(businessID uuid.UUID, entity, entityID, action string)
}

type TaxService interface {
	ListTaxRates(ctx context.Context, businessID uuid.UUID) (TaxRateListResponse, error)
	CreateTaxRate(ctx context.Context, businessID uuid.UUID, req TaxRateRequest, userID string) (TaxRateMutationResponse, error)
	UpdateTaxRate(ctx context.Context, businessID uuid.UUID, id string, req TaxRateRequest, userID string) (TaxRateMutationResponse, error)
	DeleteTaxRate(ctx context.Context, businessID uuid.UUID, id string, userID string) error

	ListTaxExemptions(ctx context.Context, businessID uuid.UUID, filter TaxExemptionFilter) ([]TaxExemptionResponse, int64, error)
	CreateTaxExemption(ctx context.Context, businessID uuid.UUID, req TaxExemptionRequest, userID string) (TaxExemptionResponse, error)
	UpdateTaxExemption(ctx context.Context, businessID uuid.UUID, id string, req TaxExemptionRequest, userID string) (TaxExemptionResponse, error)
	DeleteTaxExemption(ctx context.Context, businessID uuid.UUID, id string, userID string) error

	ValidateConfiguration(ctx context.Context, businessID uuid.UUID) ([]string, error)
	GetEffectiveRate(ctx context.Context, businessID uuid.UUID) (EffectiveRateResponse, error)
}

type taxService struct {
	rateRepo      repository.TaxRateRepository
	exemptionRepo repository.TaxExemptionRepository
	auditRepo     repository.AuditRepository
	catalog       TaxCatalog
	notifier      ConfigNotifier
	log           *zap.SugaredLogger
}

func NewTaxService(
	rateRepo repository.TaxRateRepository,
	exemptionRepo repository.TaxExemptionRepository,
	auditRepo repository.AuditRepository,
	catalog TaxCatalog,
	notifier ConfigNotifier,
	log *zap.SugaredLogger,
) TaxService {
	return &taxService{
		rateRepo:      rateRepo,
		exemptionRepo: exemptionRepo,
		auditRepo:     auditRepo,
		catalog:       catalog,
		notifier:      notifier,
		log:           log,
	}
}

const (
	entityTaxRate      = "tax_rate"
	entityTaxExemption = "tax_exemption"
)

// --- Tax rates ---

func (s *taxService) ListTaxRates(ctx context.Context, businessID uuid.UUID) (TaxRateListResponse, error) {
	rates, err := s.rateRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return TaxRateListResponse{}, fmt.Errorf("failed to fetch tax rates: %w", err)
	}

	domain := lo.Map(rates, func(r model.TaxRate, _ int) tax.Rate { return toTaxRate(r) })

	return TaxRateListResponse{
		Rates:         lo.Map(rates, func(r model.TaxRate, _ int) TaxRateResponse { return toTaxRateResponse(r) }),
		Warnings:      validateActive(domain),
		EffectiveRate: toEffectiveRateResponse(tax.EffectiveRate(domain)),
	}, nil
}

func (s *taxService) CreateTaxRate(ctx context.Context, businessID uuid.UUID, req TaxRateRequest, userID string) (TaxRateMutationResponse, error) {
	rate, err := parseRateInput(req.Rate)
	if err != nil {
		return TaxRateMutationResponse{}, err
	}

	record := model.TaxRate{
		BusinessID:  businessID,
		Name:        strings.TrimSpace(req.Name),
		Rate:        rate,
		IsActive:    lo.FromPtrOr(req.IsActive, true),
		IsCompound:  req.IsCompound,
		SortOrder:   req.SortOrder,
		Description: req.Description,
	}
	if record.Name == "" {
		return TaxRateMutationResponse{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if err := s.rateRepo.Create(ctx, &record); err != nil {
		return TaxRateMutationResponse{}, fmt.Errorf("failed to create tax rate: %w", err)
	}

	s.writeAuditLog(ctx, businessID, userID, model.ActionCreateTaxRate, record.ID.String(), record.Name+" "+tax.FormatRate(rate), req)
	s.afterChange(businessID, entityTaxRate, record.ID.String(), "created")

	return s.mutationResponse(ctx, businessID, record), nil
}

func (s *taxService) UpdateTaxRate(ctx context.Context, businessID uuid.UUID, id string, req TaxRateRequest, userID string) (TaxRateMutationResponse, error) {
	rateID, err := parseID(id, "tax rate")
	if err != nil {
		return TaxRateMutationResponse{}, err
	}

	record, err := s.rateRepo.FindByID(ctx, businessID, rateID)
	if err != nil {
		return TaxRateMutationResponse{}, notFound(err, ErrTaxRateNotFound, "failed to fetch tax rate")
	}

	rate, err := parseRateInput(req.Rate)
	if err != nil {
		return TaxRateMutationResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return TaxRateMutationResponse{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	record.Name = name
	record.Rate = rate
	record.IsActive = lo.FromPtrOr(req.IsActive, record.IsActive)
	record.IsCompound = req.IsCompound
	record.SortOrder = req.SortOrder
	record.Description = req.Description

	if err := s.rateRepo.Update(ctx, record); err != nil {
		return TaxRateMutationResponse{}, fmt.Errorf("failed to update tax rate: %w", err)
	}

	s.writeAuditLog(ctx, businessID, userID, model.ActionUpdateTaxRate, record.ID.String(), record.Name+" "+tax.FormatRate(rate), req)
	s.afterChange(businessID, entityTaxRate, record.ID.String(), "updated")

	return s.mutationResponse(ctx, businessID, *record), nil
}

func (s *taxService) DeleteTaxRate(ctx context.Context, businessID uuid.UUID, id string, userID string) error {
	rateID, err := parseID(id, "tax rate")
	if err != nil {
		return err
	}

	record, err := s.rateRepo.FindByID(ctx, businessID, rateID)
	if err != nil {
		return notFound(err, ErrTaxRateNotFound, "failed to fetch tax rate")
	}

	if err := s.rateRepo.Delete(ctx, businessID, rateID); err != nil {
		return notFound(err, ErrTaxRateNotFound, "failed to delete tax rate")
	}

	s.writeAuditLog(ctx, businessID, userID, model.ActionDeleteTaxRate, id, record.Name+" "+tax.FormatRate(record.Rate), map[string]string{"deleted_id": id})
	s.afterChange(businessID, entityTaxRate, id, "deleted")

	return nil
}

// --- Tax exemptions ---

func (s *taxService) ListTaxExemptions(ctx context.Context, businessID uuid.UUID, filter TaxExemptionFilter) ([]TaxExemptionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	exemptions, total, err := s.exemptionRepo.List(ctx, businessID, repository.TaxExemptionListFilter{
		ExemptionType: filter.ExemptionType,
		EntityID:      filter.EntityID,
		Page:          filter.Page,
		Limit:         filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tax exemptions: %w", err)
	}

	return lo.Map(exemptions, func(e model.TaxExemption, _ int) TaxExemptionResponse { return toTaxExemptionResponse(e) }), total, nil
}

func (s *taxService) CreateTaxExemption(ctx context.Context, businessID uuid.UUID, req TaxExemptionRequest, userID string) (TaxExemptionResponse, error) {
	record := model.TaxExemption{BusinessID: businessID}
	if err := s.applyExemptionRequest(ctx, businessID, &record, req); err != nil {
		return TaxExemptionResponse{}, err
	}
	record.IsActive = lo.FromPtrOr(req.IsActive, true)

	if err := s.exemptionRepo.Create(ctx, &record); err != nil {
		return TaxExemptionResponse{}, fmt.Errorf("failed to create tax exemption: %w", err)
	}

	s.writeAuditLog(ctx, businessID, userID, model.ActionCreateTaxExemption, record.ID.String(), record.ExemptionType+" "+record.EntityID, req)
	s.afterChange(businessID, entityTaxExemption, record.ID.String(), "created")

	return toTaxExemptionResponse(record), nil
}

func (s *taxService) UpdateTaxExemption(ctx context.Context, businessID uuid.UUID, id string, req TaxExemptionRequest, userID string) (TaxExemptionResponse, error) {
	exemptionID, err := parseID(id, "tax exemption")
	if err != nil {
		return TaxExemptionResponse{}, err
	}

	record, err := s.exemptionRepo.FindByID(ctx, businessID, exemptionID)
	if err != nil {
		return TaxExemptionResponse{}, notFound(err, ErrTaxExemptionNotFound, "failed to fetch tax exemption")
	}

	if err := s.applyExemptionRequest(ctx, businessID, record, req); err != nil {
		return TaxExemptionResponse{}, err
	}
	record.IsActive = lo.FromPtrOr(req.IsActive, record.IsActive)

	if err := s.exemptionRepo.Update(ctx, record); err != nil {
		return TaxExemptionResponse{}, fmt.Errorf("failed to update tax exemption: %w", err)
	}

	s.writeAuditLog(ctx, businessID, userID, model.ActionUpdateTaxExemption, record.ID.String(), record.ExemptionType+" "+record.EntityID, req)
	s.afterChange(businessID, entityTaxExemption, record.ID.String(), "updated")

	return toTaxExemptionResponse(*record), nil
}

func (s *taxService) DeleteTaxExemption(ctx context.Context, businessID uuid.UUID, id string, userID string) error {
	exemptionID, err := parseID(id, "tax exemption")
	if err != nil {
		return err
	}

	if err := s.exemptionRepo.Delete(ctx, businessID, exemptionID); err != nil {
		return notFound(err, ErrTaxExemptionNotFound, "failed to delete tax exemption")
	}

	s.writeAuditLog(ctx, businessID, userID, model.ActionDeleteTaxExemption, id, "", map[string]string{"deleted_id": id})
	s.afterChange(businessID, entityTaxExemption, id, "deleted")

	return nil
}

// applyExemptionRequest copies req onto record after checking the referenced
// rate belongs to the business.
func (s *taxService) applyExemptionRequest(ctx context.Context, businessID uuid.UUID, record *model.TaxExemption, req TaxExemptionRequest) error {
	if !tax.ExemptionType(req.ExemptionType).Valid() {
		return fmt.Errorf("%w: unknown exemption type %q", ErrInvalidInput, req.ExemptionType)
	}
	entityID := strings.TrimSpace(req.EntityID)
	if entityID == "" {
		return fmt.Errorf("%w: entity_id is required", ErrInvalidInput)
	}

	record.ExemptionType = req.ExemptionType
	record.EntityID = entityID
	record.Reason = req.Reason
	record.TaxRateID = nil
	record.TaxRate = nil

	if req.TaxRateID == "" {
		return nil
	}

	rateID, err := parseID(req.TaxRateID, "tax rate")
	if err != nil {
		return err
	}
	rate, err := s.rateRepo.FindByID(ctx, businessID, rateID)
	if err != nil {
		return notFound(err, ErrTaxRateNotFound, "failed to fetch tax rate")
	}
	record.TaxRateID = &rate.ID
	record.TaxRate = rate
	return nil
}

// --- Configuration ---

func (s *taxService) ValidateConfiguration(ctx context.Context, businessID uuid.UUID) ([]string, error) {
	catalog, err := s.catalog.Load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return validateActive(catalog.Rates), nil
}

func (s *taxService) GetEffectiveRate(ctx context.Context, businessID uuid.UUID) (EffectiveRateResponse, error) {
	catalog, err := s.catalog.Load(ctx, businessID)
	if err != nil {
		return EffectiveRateResponse{}, err
	}
	return toEffectiveRateResponse(tax.EffectiveRate(catalog.Rates)), nil
}

// --- Helpers ---

// validateActive checks the rates that take part in calculation; inactive
// rates can share a name with an active one.
func validateActive(rates []tax.Rate) []string {
	return tax.ValidateConfiguration(lo.Filter(rates, func(r tax.Rate, _ int) bool { return r.IsActive }))
}

func (s *taxService) mutationResponse(ctx context.Context, businessID uuid.UUID, record model.TaxRate) TaxRateMutationResponse {
	warnings, err := s.ValidateConfiguration(ctx, businessID)
	if err != nil {
		s.log.Warnw("failed to validate tax configuration", "business_id", businessID, "error", err)
		warnings = []string{}
	}
	return TaxRateMutationResponse{TaxRate: toTaxRateResponse(record), Warnings: warnings}
}

func (s *taxService) afterChange(businessID uuid.UUID, entity, entityID, action string) {
	s.catalog.Invalidate(businessID)
	s.notifier.NotifyTaxConfigChanged(businessID, entity, entityID, action)
}

// parseRateInput accepts a fraction ("0.0825") or a percentage ("8.25%").
func parseRateInput(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "%") {
		rate, err := tax.ParseRate(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return rate, nil
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid rate value %q", ErrInvalidInput, raw)
	}
	return rate, nil
}

func parseID(id, what string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s id", ErrInvalidInput, what)
	}
	return parsed, nil
}

// notFound maps gorm.ErrRecordNotFound to sentinel and wraps anything else.
func notFound(err, sentinel error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *taxService) writeAuditLog(ctx context.Context, businessID uuid.UUID, userID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		BusinessID: businessID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}
	if parsed, err := uuid.Parse(userID); err == nil {
		entry.UserID = &parsed
	}

	// Best-effort: the write already succeeded
	if err := s.auditRepo.Log(ctx, &entry); err != nil {
		s.log.Warnw("failed to write audit log", "action", action, "entity_id", entityID, "error", err)
	}
}

// --- Mapping ---

func toTaxRateResponse(r model.TaxRate) TaxRateResponse {
	return TaxRateResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Rate:        r.Rate.String(),
		RateDisplay: tax.FormatRate(r.Rate),
		IsActive:    r.IsActive,
		IsCompound:  r.IsCompound,
		SortOrder:   r.SortOrder,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}

func toTaxExemptionResponse(e model.TaxExemption) TaxExemptionResponse {
	resp := TaxExemptionResponse{
		ID:            e.ID.String(),
		ExemptionType: e.ExemptionType,
		EntityID:      e.EntityID,
		Reason:        e.Reason,
		IsActive:      e.IsActive,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
	if e.TaxRateID != nil {
		id := e.TaxRateID.String()
		resp.TaxRateID = &id
	}
	if e.TaxRate != nil {
		resp.TaxRateName = &e.TaxRate.Name
	}
	return resp
}

func toEffectiveRateResponse(rate decimal.Decimal) EffectiveRateResponse {
	return EffectiveRateResponse{Rate: rate.String(), Display: tax.FormatRate(rate)}
}
