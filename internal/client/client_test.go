package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestClient_LoginAndMe(t *testing.T) {
	server := newTestServer(t)
	server.register(t, "Ana", "ana@salt.test", "admin")

	c := server.newClient(t)
	ctx := context.Background()

	result, err := c.Login(ctx, "ana@salt.test", "segredo")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, result.User.Role)
	assert.False(t, result.User.CreatedAt.IsZero())

	_, err = c.Me(ctx)
	assert.True(t, IsUnauthorized(err), "token is not attached until SetToken")

	c.SetToken(result.Token)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, me.ID)
}

func TestClient_DecodesAPIErrors(t *testing.T) {
	server := newTestServer(t)
	server.register(t, "Ana", "ana@salt.test", "")

	_, err := server.newClient(t).Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@salt.test", Password: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Email já existe", apiErr.Message)
	assert.True(t, HasStatus(err, http.StatusBadRequest))
}

func TestClient_FinancialRoundTrip(t *testing.T) {
	server := newTestServer(t)
	server.register(t, "Ana", "ana@salt.test", "")

	c := server.newClient(t)
	ctx := context.Background()
	result, err := c.Login(ctx, "ana@salt.test", "segredo")
	require.NoError(t, err)
	c.SetToken(result.Token)

	income := domain.FinancialTypeIncome
	created, err := c.CreateFinancial(ctx, FinancialInput{
		Description: ptr("Venda"),
		Amount:      ptr(testutil.Money("99.9")),
		Type:        &income,
	})
	require.NoError(t, err)
	assert.True(t, created.Amount.Equal(testutil.Money("99.90")))
	require.NotNil(t, created.AuthorID)
	assert.Equal(t, result.User.ID, *created.AuthorID)

	summary, err := c.FinancialSummary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Balance.Equal(testutil.Money("99.90")))
	assert.Equal(t, int64(1), summary.Count)

	require.NoError(t, c.DeleteFinancial(ctx, created.ID))
	err = c.DeleteFinancial(ctx, created.ID)
	assert.True(t, HasStatus(err, http.StatusNotFound))
}

func TestClient_WebsocketURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{base: "http://localhost:8080", want: "ws://localhost:8080/ws?token=abc"},
		{base: "https://api.salt.example/", want: "wss://api.salt.example/ws?token=abc"},
		{base: "https://salt.example/api", want: "wss://salt.example/api/ws?token=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			c, err := NewClient(Config{BaseURL: tt.base})
			require.NoError(t, err)

			got, err := c.websocketURL("abc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
