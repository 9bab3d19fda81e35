package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"posbackend/internal/model"
	"posbackend/internal/repository"
	"posbackend/internal/tax"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type CalculateTaxRequest struct {
	OrderID     string   `json:"order_id"` // when set, the tax lines are recorded against the order
	Subtotal    string   `json:"subtotal" binding:"required"`
	CustomerID  string   `json:"customer_id"`
	ProductIDs  []string `json:"product_ids"`
	CategoryIDs []string `json:"category_ids"`
}

type TaxLineResponse struct {
	TaxRateID      string `json:"tax_rate_id"`
	TaxName        string `json:"tax_name"`
	TaxRate        string `json:"tax_rate"`
	TaxRateDisplay string `json:"tax_rate_display"`
	TaxableAmount  string `json:"taxable_amount"`
	TaxAmount      string `json:"tax_amount"`
	IsCompound     bool   `json:"is_compound"`
}

type CalculateTaxResponse struct {
	OrderID    string            `json:"order_id,omitempty"`
	Subtotal   string            `json:"subtotal"`
	TaxDetails []TaxLineResponse `json:"tax_details"`
	TotalTax   string            `json:"total_tax"`
	GrandTotal string            `json:"grand_total"`
}

type OrderTaxResponse struct {
	TaxLineResponse
	LineNo    int    `json:"line_no"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type OrderTaxService interface {
	// Calculate prices tax for an order. Recording the lines, when an order id
	// is given, happens in the background and never affects the returned result.
	Calculate(ctx context.Context, businessID uuid.UUID, req CalculateTaxRequest) (CalculateTaxResponse, error)
	RecordOrderTaxes(ctx context.Context, businessID uuid.UUID, orderID string, result tax.Result) error
	GetOrderTaxes(ctx context.Context, businessID uuid.UUID, orderID string) ([]OrderTaxResponse, error)
	// Wait blocks until all background recordings have finished.
	Wait()
}

type orderTaxService struct {
	catalog        TaxCatalog
	orderTaxRepo   repository.OrderTaxRepository
	txManager      repository.TransactionManager
	persistTimeout time.Duration
	log            *zap.SugaredLogger
	wg             sync.WaitGroup
}

func NewOrderTaxService(
	catalog TaxCatalog,
	orderTaxRepo repository.OrderTaxRepository,
	txManager repository.TransactionManager,
	persistTimeout time.Duration,
	log *zap.SugaredLogger,
) OrderTaxService {
	return &orderTaxService{
		catalog:        catalog,
		orderTaxRepo:   orderTaxRepo,
		txManager:      txManager,
		persistTimeout: persistTimeout,
		log:            log,
	}
}

// --- Implementation ---

func (s *orderTaxService) Calculate(ctx context.Context, businessID uuid.UUID, req CalculateTaxRequest) (CalculateTaxResponse, error) {
	subtotal, err := decimal.NewFromString(strings.TrimSpace(req.Subtotal))
	if err != nil {
		return CalculateTaxResponse{}, fmt.Errorf("%w: invalid subtotal", ErrInvalidInput)
	}
	if subtotal.IsNegative() {
		return CalculateTaxResponse{}, fmt.Errorf("%w: subtotal must not be negative", ErrInvalidInput)
	}

	catalog, err := s.catalog.Load(ctx, businessID)
	if err != nil {
		return CalculateTaxResponse{}, err
	}

	scope := &tax.Scope{
		CustomerID:  strings.TrimSpace(req.CustomerID),
		ProductIDs:  req.ProductIDs,
		CategoryIDs: req.CategoryIDs,
	}
	result := tax.Calculate(subtotal, catalog.Rates, catalog.Exemptions, scope)

	orderID := strings.TrimSpace(req.OrderID)
	if orderID != "" {
		s.recordInBackground(ctx, businessID, orderID, result)
	}

	return toCalculateTaxResponse(orderID, result), nil
}

// recordInBackground persists the lines detached from the request context;
// failures are logged only.
func (s *orderTaxService) recordInBackground(ctx context.Context, businessID uuid.UUID, orderID string, result tax.Result) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
		defer cancel()

		if err := s.RecordOrderTaxes(persistCtx, businessID, orderID, result); err != nil {
			s.log.Errorw("failed to record order taxes",
				"business_id", businessID,
				"order_id", orderID,
				"error", err,
			)
		}
	}()
}

func (s *orderTaxService) RecordOrderTaxes(ctx context.Context, businessID uuid.UUID, orderID string, result tax.Result) error {
	lines := make([]model.OrderTax, 0, len(result.Details))
	for i, detail := range result.Details {
		rateID, err := uuid.Parse(detail.TaxRateID)
		if err != nil {
			return fmt.Errorf("invalid tax rate id %q: %w", detail.TaxRateID, err)
		}
		lines = append(lines, model.OrderTax{
			BusinessID:    businessID,
			OrderID:       orderID,
			TaxRateID:     rateID,
			TaxName:       detail.TaxName,
			TaxRate:       detail.TaxRate,
			TaxableAmount: detail.TaxableAmount,
			TaxAmount:     detail.TaxAmount,
			IsCompound:    detail.IsCompound,
			LineNo:        i + 1,
		})
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.orderTaxRepo.ReplaceForOrder(txCtx, businessID, orderID, lines)
	})
}

func (s *orderTaxService) GetOrderTaxes(ctx context.Context, businessID uuid.UUID, orderID string) ([]OrderTaxResponse, error) {
	lines, err := s.orderTaxRepo.ListByOrder(ctx, businessID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order taxes: %w", err)
	}

	return lo.Map(lines, func(l model.OrderTax, _ int) OrderTaxResponse {
		return OrderTaxResponse{
			TaxLineResponse: TaxLineResponse{
				TaxRateID:      l.TaxRateID.String(),
				TaxName:        l.TaxName,
				TaxRate:        l.TaxRate.String(),
				TaxRateDisplay: tax.FormatRate(l.TaxRate),
				TaxableAmount:  l.TaxableAmount.StringFixed(4),
				TaxAmount:      l.TaxAmount.StringFixed(4),
				IsCompound:     l.IsCompound,
			},
			LineNo:    l.LineNo,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		}
	}), nil
}

func (s *orderTaxService) Wait() {
	s.wg.Wait()
}

// --- Mapping ---

func toCalculateTaxResponse(orderID string, result tax.Result) CalculateTaxResponse {
	return CalculateTaxResponse{
		OrderID:  orderID,
		Subtotal: result.Subtotal.String(),
		TaxDetails: lo.Map(result.Details, func(d tax.Detail, _ int) TaxLineResponse {
			return TaxLineResponse{
				TaxRateID:      d.TaxRateID,
				TaxName:        d.TaxName,
				TaxRate:        d.TaxRate.String(),
				TaxRateDisplay: tax.FormatRate(d.TaxRate),
				TaxableAmount:  d.TaxableAmount.String(),
				TaxAmount:      d.TaxAmount.String(),
				IsCompound:     d.IsCompound,
			}
		}),
		TotalTax:   result.TotalTax.StringFixed(2),
		GrandTotal: result.GrandTotal.StringFixed(2),
	}
}
