package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sistema-salt/salt-backend/internal/auth"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

func int32Ptr(v int32) *int32 {
	return &v
}

func setupGuardContext(method, id string, identity *auth.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/tasks/"+id, nil)
	if identity != nil {
		req = req.WithContext(WithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/tasks/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	tasks := map[int32]*domain.Task{
		10: {ID: 10, AuthorID: int32Ptr(2), Title: "Inventário"},
		11: {ID: 11, AuthorID: nil, Title: "Órfã"},
	}
	lookup := func(ctx context.Context, id int32) (domain.Owned, error) {
		if id == 99 {
			return nil, errors.New("connection reset")
		}
		task, ok := tasks[id]
		if !ok {
			return nil, domain.ErrTaskNotFound
		}
		return task, nil
	}

	author := &auth.Identity{UserID: 2, Role: domain.RoleUser}
	stranger := &auth.Identity{UserID: 3, Role: domain.RoleUser}
	admin := &auth.Identity{UserID: 1, Role: domain.RoleAdmin}

	tests := []struct {
		name           string
		id             string
		identity       *auth.Identity
		expectedStatus int
	}{
		{name: "author may modify", id: "10", identity: author, expectedStatus: http.StatusOK},
		{name: "admin may modify", id: "10", identity: admin, expectedStatus: http.StatusOK},
		{name: "other user is forbidden", id: "10", identity: stranger, expectedStatus: http.StatusForbidden},
		{name: "orphaned record is admin only", id: "11", identity: author, expectedStatus: http.StatusForbidden},
		{name: "admin may modify orphaned record", id: "11", identity: admin, expectedStatus: http.StatusOK},
		{name: "missing record", id: "12", identity: admin, expectedStatus: http.StatusNotFound},
		{name: "non-numeric id", id: "abc", identity: admin, expectedStatus: http.StatusBadRequest},
		{name: "id wrapping onto an existing row", id: "4294967306", identity: admin, expectedStatus: http.StatusBadRequest},
		{name: "lookup failure", id: "99", identity: admin, expectedStatus: http.StatusInternalServerError},
		{name: "no identity", id: "10", identity: nil, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupGuardContext(http.MethodPut, tt.id, tt.identity)

			var loaded domain.Owned
			handler := func(c echo.Context) error {
				loaded = GetRecord(c)
				return c.NoContent(http.StatusOK)
			}

			if err := RequireOwnerOrAdmin(lookup)(handler)(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedStatus == http.StatusOK && loaded == nil {
				t.Error("Expected the guarded record to be stored on the context")
			}
			if tt.expectedStatus == http.StatusForbidden {
				if p := decodeProblem(t, rec); p.Error != "Sem permissão" {
					t.Errorf("Expected 'Sem permissão', got %q", p.Error)
				}
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name           string
		identity       *auth.Identity
		expectedStatus int
	}{
		{name: "admin", identity: &auth.Identity{UserID: 1, Role: domain.RoleAdmin}, expectedStatus: http.StatusOK},
		{name: "user", identity: &auth.Identity{UserID: 2, Role: domain.RoleUser}, expectedStatus: http.StatusForbidden},
		{name: "anonymous", identity: nil, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupGuardContext(http.MethodDelete, "5", tt.identity)
			handler := func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}

			if err := RequireAdmin()(handler)(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func TestGetRecord_Absent(t *testing.T) {
	c, _ := setupGuardContext(http.MethodGet, "1", nil)
	if GetRecord(c) != nil {
		t.Error("Expected nil record")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int32
		wantErr bool
	}{
		{raw: "1", want: 1},
		{raw: "2147483647", want: 2147483647},
		{raw: "2147483648", wantErr: true},
		{raw: "4294967297", wantErr: true},
		{raw: "-2147483649", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, _ := setupGuardContext(http.MethodGet, tt.raw, nil)
			id, err := ParseID(c)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got id %d", tt.raw, id)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.want {
				t.Errorf("expected %d, got %d", tt.want, id)
			}
		})
	}
}
