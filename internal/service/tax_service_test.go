package service

import (
	"context"
	"testing"

	"posbackend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxService_CreateTaxRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	businessID := uuid.New()
	userID := uuid.New()

	// prime the cache so the create has something to invalidate
	_, err := env.catalog.Load(ctx, businessID)
	require.NoError(t, err)

	resp, err := env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{
		Name:      "  State Sales Tax ",
		Rate:      "8.25%",
		SortOrder: 1,
	}, userID.String())
	require.NoError(t, err)

	assert.Equal(t, "State Sales Tax", resp.TaxRate.Name)
	assert.Equal(t, "0.0825", resp.TaxRate.Rate)
	assert.Equal(t, "8.25%", resp.TaxRate.RateDisplay)
	assert.True(t, resp.TaxRate.IsActive)
	assert.NotNil(t, resp.Warnings)
	assert.Empty(t, resp.Warnings)

	catalog, err := env.catalog.Load(ctx, businessID)
	require.NoError(t, err)
	require.Len(t, catalog.Rates, 1)
	assert.Equal(t, resp.TaxRate.ID, catalog.Rates[0].ID)

	events := env.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notification{BusinessID: businessID, Entity: "tax_rate", EntityID: resp.TaxRate.ID, Action: "created"}, events[0])

	logs, total, err := env.auditRepo.List(ctx, businessID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, model.ActionCreateTaxRate, logs[0].Action)
	assert.Equal(t, resp.TaxRate.ID, logs[0].EntityID)
	assert.Equal(t, "State Sales Tax 8.25%", logs[0].EntityName)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, userID, *logs[0].UserID)
}

func TestTaxService_CreateTaxRate_FractionAndInactive(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.taxService.CreateTaxRate(context.Background(), uuid.New(), TaxRateRequest{
		Name:     "Luxury",
		Rate:     "0.1",
		IsActive: boolPtr(false),
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "0.1", resp.TaxRate.Rate)
	assert.Equal(t, "10.00%", resp.TaxRate.RateDisplay)
	assert.False(t, resp.TaxRate.IsActive)
}

func TestTaxService_CreateTaxRate_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  TaxRateRequest
	}{
		{name: "bad rate", req: TaxRateRequest{Name: "X", Rate: "eight"}},
		{name: "bad percentage", req: TaxRateRequest{Name: "X", Rate: "eight%"}},
		{name: "blank name", req: TaxRateRequest{Name: "   ", Rate: "0.05"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.taxService.CreateTaxRate(context.Background(), uuid.New(), tt.req, "")
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Empty(t, env.notifier.Events())
}

func TestTaxService_CreateTaxRate_ReturnsWarnings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	businessID := uuid.New()

	_, err := env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{Name: "Sales Tax", Rate: "0.05"}, "")
	require.NoError(t, err)

	resp, err := env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{Name: "sales tax", Rate: "0.6", SortOrder: 1}, "")
	require.NoError(t, err)

	assert.Contains(t, resp.Warnings, "Duplicate tax rate names: Sales Tax")
	assert.Contains(t, resp.Warnings, "Unusually high tax rates (over 50%): sales tax")
	assert.Contains(t, resp.Warnings, "Total effective tax rate is very high: 65.00%")
}

func TestTaxService_UpdateTaxRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	businessID := uuid.New()

	created, err := env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{Name: "GST", Rate: "0.05"}, "")
	require.NoError(t, err)

	updated, err := env.taxService.UpdateTaxRate(ctx, businessID, created.TaxRate.ID, TaxRateRequest{
		Name:       "GST",
		Rate:       "7%",
		IsCompound: true,
		SortOrder:  4,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, created.TaxRate.ID, updated.TaxRate.ID)
	assert.Equal(t, "0.07", updated.TaxRate.Rate)
	assert.True(t, updated.TaxRate.IsCompound)
	assert.True(t, updated.TaxRate.IsActive, "omitted is_active keeps the stored value")
	assert.Equal(t, 4, updated.TaxRate.SortOrder)

	deactivated, err := env.taxService.UpdateTaxRate(ctx, businessID, created.TaxRate.ID, TaxRateRequest{
		Name: "GST", Rate: "7%", IsActive: boolPtr(false),
	}, "")
	require.NoError(t, err)
	assert.False(t, deactivated.TaxRate.IsActive)

	events := env.notifier.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "updated", events[2].Action)
}

func TestTaxService_UpdateTaxRate_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	businessID := uuid.New()

	created, err := env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{Name: "GST", Rate: "0.05"}, "")
	require.NoError(t, err)

	_, err = env.taxService.UpdateTaxRate(ctx, businessID, "not-a-uuid", TaxRateRequest{Name: "GST", Rate: "0.05"}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.taxService.UpdateTaxRate(ctx, businessID, uuid.NewString(), TaxRateRequest{Name: "GST", Rate: "0.05"}, "")
	assert.ErrorIs(t, err, ErrTaxRateNotFound)

	_, err = env.taxService.UpdateTaxRate(ctx, uuid.New(), created.TaxRate.ID, TaxRateRequest{Name: "GST", Rate: "0.05"}, "")
	assert.ErrorIs(t, err, ErrTaxRateNotFound, "rates of another business are invisible")

	_, err = env.taxService.UpdateTaxRate(ctx, businessID, created.TaxRate.ID, TaxRateRequest{Name: "GST", Rate: "x"}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTaxService_DeleteTaxRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	businessID := uuid.New()

	created, err := env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{Name: "GST", Rate: "0.05"}, "")
	require.NoError(t, err)

	require.NoError(t, env.taxService.DeleteTaxRate(ctx, businessID, created.TaxRate.ID, ""))

	list, err := env.taxService.ListTaxRates(ctx, businessID)
	require.NoError(t, err)
	assert.Empty(t, list.Rates)

	err = env.taxService.DeleteTaxRate(ctx, businessID, created.TaxRate.ID, "")
	assert.ErrorIs(t, err, ErrTaxRateNotFound)

	logs, _, err := env.auditRepo.List(ctx, businessID, 1, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	actions := []string{logs[0].Action, logs[1].Action}
	assert.ElementsMatch(t, []string{model.ActionCreateTaxRate, model.ActionDeleteTaxRate}, actions)
}

func TestTaxService_ListTaxRates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	businessID := uuid.New()

	for _, req := range []TaxRateRequest{
		{Name: "Provincial", Rate: "0.10", IsCompound: true},
		{Name: "Federal", Rate: "0.05", SortOrder: 2},
		{Name: "City", Rate: "0.03", SortOrder: 1},
		{Name: "Retired", Rate: "0.05", IsActive: boolPtr(false)},
	} {
		_, err := env.taxService.CreateTaxRate(ctx, businessID, req, "")
		require.NoError(t, err)
	}
	_, err := env.taxService.CreateTaxRate(ctx, uuid.New(), TaxRateRequest{Name: "Other", Rate: "0.2"}, "")
	require.NoError(t, err)

	list, err := env.taxService.ListTaxRates(ctx, businessID)
	require.NoError(t, err)

	require.Len(t, list.Rates, 4)
	assert.Equal(t, "Provincial", list.Rates[3].Name, "compound rates are listed last")
	assert.Equal(t, "0.188", list.EffectiveRate.Rate)
	assert.Equal(t, "18.80%", list.EffectiveRate.Display)
	assert.Empty(t, list.Warnings)
}

func TestTaxService_InactiveDuplicateIsNotWarned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	businessID := uuid.New()

	_, err := env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{Name: "VAT", Rate: "0.2"}, "")
	require.NoError(t, err)
	_, err = env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{Name: "VAT", Rate: "0.15", IsActive: boolPtr(false)}, "")
	require.NoError(t, err)

	warnings, err := env.taxService.ValidateConfiguration(ctx, businessID)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestTaxService_GetEffectiveRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	businessID := uuid.New()

	empty, err := env.taxService.GetEffectiveRate(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, EffectiveRateResponse{Rate: "0", Display: "0.00%"}, empty)

	_, err = env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{Name: "Federal", Rate: "0.20"}, "")
	require.NoError(t, err)
	_, err = env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{Name: "Provincial", Rate: "0.10", IsCompound: true}, "")
	require.NoError(t, err)

	resp, err := env.taxService.GetEffectiveRate(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, "0.32", resp.Rate)
	assert.Equal(t, "32.00%", resp.Display)

	warnings, err := env.taxService.ValidateConfiguration(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Total effective tax rate is very high: 32.00%"}, warnings)
}

func TestTaxService_TaxExemptionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	businessID := uuid.New()

	rate, err := env.taxService.CreateTaxRate(ctx, businessID, TaxRateRequest{Name: "GST", Rate: "0.05"}, "")
	require.NoError(t, err)

	created, err := env.taxService.CreateTaxExemption(ctx, businessID, TaxExemptionRequest{
		ExemptionType: "product",
		EntityID:      " sku-42 ",
		TaxRateID:     rate.TaxRate.ID,
		Reason:        "basic groceries",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "product", created.ExemptionType)
	assert.Equal(t, "sku-42", created.EntityID)
	require.NotNil(t, created.TaxRateID)
	assert.Equal(t, rate.TaxRate.ID, *created.TaxRateID)
	require.NotNil(t, created.TaxRateName)
	assert.Equal(t, "GST", *created.TaxRateName)
	assert.True(t, created.IsActive)

	updated, err := env.taxService.UpdateTaxExemption(ctx, businessID, created.ID, TaxExemptionRequest{
		ExemptionType: "category",
		EntityID:      "cat-food",
		IsActive:      boolPtr(false),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "category", updated.ExemptionType)
	assert.Nil(t, updated.TaxRateID, "empty tax_rate_id makes the exemption blanket")
	assert.False(t, updated.IsActive)

	list, total, err := env.taxService.ListTaxExemptions(ctx, businessID, TaxExemptionFilter{ExemptionType: "category"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	require.NoError(t, env.taxService.DeleteTaxExemption(ctx, businessID, created.ID, ""))
	err = env.taxService.DeleteTaxExemption(ctx, businessID, created.ID, "")
	assert.ErrorIs(t, err, ErrTaxExemptionNotFound)

	actions := make([]string, 0)
	for _, e := range env.notifier.Events() {
		if e.Entity == "tax_exemption" {
			actions = append(actions, e.Action)
		}
	}
	assert.Equal(t, []string{"created", "updated", "deleted"}, actions)
}

func TestTaxService_CreateTaxExemption_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	businessID := uuid.New()

	foreign, err := env.taxService.CreateTaxRate(ctx, uuid.New(), TaxRateRequest{Name: "Other", Rate: "0.05"}, "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     TaxExemptionRequest
		wantErr error
	}{
		{name: "unknown type", req: TaxExemptionRequest{ExemptionType: "region", EntityID: "x"}, wantErr: ErrInvalidInput},
		{name: "blank entity", req: TaxExemptionRequest{ExemptionType: "customer", EntityID: " "}, wantErr: ErrInvalidInput},
		{name: "bad rate id", req: TaxExemptionRequest{ExemptionType: "customer", EntityID: "c1", TaxRateID: "nope"}, wantErr: ErrInvalidInput},
		{name: "missing rate", req: TaxExemptionRequest{ExemptionType: "customer", EntityID: "c1", TaxRateID: uuid.NewString()}, wantErr: ErrTaxRateNotFound},
		{name: "rate of another business", req: TaxExemptionRequest{ExemptionType: "customer", EntityID: "c1", TaxRateID: foreign.TaxRate.ID}, wantErr: ErrTaxRateNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.taxService.CreateTaxExemption(ctx, businessID, tt.req, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, total, err := env.taxService.ListTaxExemptions(ctx, businessID, TaxExemptionFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
