package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrTaskNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("get task: %w", ErrTaskNotFound)))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(ErrForbidden))
	assert.False(t, IsNotFound(nil))
}

func TestCanModify(t *testing.T) {
	author := int32(5)

	tests := []struct {
		name   string
		caller int32
		role   Role
		record Owned
		want   bool
	}{
		{"author", 5, RoleUser, &Task{AuthorID: &author}, true},
		{"other user", 6, RoleUser, &Task{AuthorID: &author}, false},
		{"admin", 6, RoleAdmin, &Financial{AuthorID: &author}, true},
		{"orphaned record as user", 5, RoleUser, &Communication{}, false},
		{"orphaned record as admin", 1, RoleAdmin, &Communication{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.caller, tt.role, tt.record))
		})
	}
}
