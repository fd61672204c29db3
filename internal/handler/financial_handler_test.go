package handler

import (
	"net/http"
	"testing"

	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFinancial(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		amount string
	}{
		{name: "numeric amount", body: `{"description":"Venda","amount":150.5,"type":"income"}`, amount: "150.50"},
		{name: "string amount", body: `{"description":"Aluguel","amount":"1200","type":"expense"}`, amount: "1200.00"},
		{name: "rounds to cents", body: `{"description":"Taxa","amount":"0.125","type":"expense"}`, amount: "0.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			token := api.seedUser(2, domain.RoleUser)

			rec := api.do(http.MethodPost, "/financials", tt.body, token)
			requireStatus(t, rec, http.StatusCreated)

			created := decodeJSON[FinancialResponse](t, rec)
			assert.Equal(t, tt.amount, created.Amount)
			require.NotNil(t, created.AuthorID)
			assert.Equal(t, int32(2), *created.AuthorID)
		})
	}
}

func TestCreateFinancial_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "refund type", body: `{"description":"Devolução","amount":10,"type":"refund"}`, message: "Tipo inválido"},
		{name: "zero amount", body: `{"description":"Nada","amount":0,"type":"income"}`, message: "Valor inválido"},
		{name: "negative amount", body: `{"description":"Nada","amount":-5,"type":"income"}`, message: "Valor inválido"},
		{name: "too large", body: `{"description":"Muito","amount":"1000000000000","type":"income"}`, message: "Valor inválido"},
		{name: "missing description", body: `{"amount":10,"type":"income"}`, message: "A descrição é obrigatória"},
		{name: "non-numeric amount", body: `{"description":"X","amount":"dez","type":"income"}`, message: msgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			token := api.seedUser(2, domain.RoleUser)

			rec := api.do(http.MethodPost, "/financials", tt.body, token)
			requireStatus(t, rec, http.StatusBadRequest)
			assert.Equal(t, tt.message, decodeJSON[ProblemDetails](t, rec).Error)
		})
	}
}

func TestFinancialSummary(t *testing.T) {
	api := newTestAPI(t)
	token := api.seedUser(1, domain.RoleUser)
	api.store.Financials.AddFinancial(&domain.Financial{ID: 1, Description: "Venda", Amount: testutil.Money("100.10"), Type: domain.FinancialTypeIncome})
	api.store.Financials.AddFinancial(&domain.Financial{ID: 2, Description: "Luz", Amount: testutil.Money("40"), Type: domain.FinancialTypeExpense})

	rec := api.do(http.MethodGet, "/financials/summary", "", token)
	requireStatus(t, rec, http.StatusOK)

	summary := decodeJSON[FinancialSummaryResponse](t, rec)
	assert.Equal(t, "100.10", summary.Income)
	assert.Equal(t, "40.00", summary.Expense)
	assert.Equal(t, "60.10", summary.Balance)
	assert.Equal(t, int64(2), summary.Count)
}

func TestUpdateFinancial_OwnerAndPartialMerge(t *testing.T) {
	api := newTestAPI(t)
	authorToken := api.seedUser(1, domain.RoleUser)
	otherToken := api.seedUser(2, domain.RoleUser)
	api.store.Financials.AddFinancial(&domain.Financial{ID: 5, AuthorID: testutil.Int32Ptr(1), Description: "Venda", Amount: testutil.Money("10"), Type: domain.FinancialTypeIncome})

	requireStatus(t, api.do(http.MethodPut, "/financials/5", `{"amount":20}`, otherToken), http.StatusForbidden)

	rec := api.do(http.MethodPut, "/financials/5", `{"amount":"20.5"}`, authorToken)
	requireStatus(t, rec, http.StatusOK)
	updated := decodeJSON[FinancialResponse](t, rec)
	assert.Equal(t, "20.50", updated.Amount)
	assert.Equal(t, "Venda", updated.Description)
	assert.Equal(t, "income", updated.Type)

	rec = api.do(http.MethodPut, "/financials/5", `{"type":"refund"}`, authorToken)
	requireStatus(t, rec, http.StatusBadRequest)

	requireStatus(t, api.do(http.MethodPut, "/financials/5", `{}`, authorToken), http.StatusBadRequest)
	requireStatus(t, api.do(http.MethodPut, "/financials/77", `{"amount":1}`, authorToken), http.StatusNotFound)
}

func TestDeleteFinancial(t *testing.T) {
	api := newTestAPI(t)
	authorToken := api.seedUser(1, domain.RoleUser)
	adminToken := api.seedUser(9, domain.RoleAdmin)
	api.store.Financials.AddFinancial(&domain.Financial{ID: 5, AuthorID: testutil.Int32Ptr(1), Description: "Venda", Amount: testutil.Money("10"), Type: domain.FinancialTypeIncome})
	api.store.Financials.AddFinancial(&domain.Financial{ID: 6, AuthorID: testutil.Int32Ptr(9), Description: "Compra", Amount: testutil.Money("10"), Type: domain.FinancialTypeExpense})

	requireStatus(t, api.do(http.MethodDelete, "/financials/6", "", authorToken), http.StatusForbidden)
	requireStatus(t, api.do(http.MethodDelete, "/financials/5", "", adminToken), http.StatusNoContent)

	rec := api.do(http.MethodGet, "/financials", "", authorToken)
	requireStatus(t, rec, http.StatusOK)
	list := decodeJSON[[]FinancialResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, int32(6), list[0].ID)
}
