//go:build unit

package staff_test

import (
	"testing"

	"omiam-waitlist/internal/domain/staff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	t.Run("権限の包含関係", func(t *testing.T) {
		cases := []struct {
			role     staff.Role
			min      staff.Role
			expected bool
		}{
			{staff.RoleHost, staff.RoleHost, true},
			{staff.RoleHost, staff.RoleManager, false},
			{staff.RoleManager, staff.RoleHost, true},
			{staff.RoleManager, staff.RoleAdmin, false},
			{staff.RoleAdmin, staff.RoleManager, true},
			{staff.Role("chef"), staff.RoleHost, false},
			{staff.RoleAdmin, staff.Role(""), false},
		}
		for _, c := range cases {
			assert.Equal(t, c.expected, c.role.AtLeast(c.min), "%s >= %s", c.role, c.min)
		}
	})

	t.Run("文字列からの生成", func(t *testing.T) {
		role, err := staff.NewRole("manager")
		require.NoError(t, err)
		assert.Equal(t, staff.RoleManager, role)

		_, err = staff.NewRole("Manager")
		assert.ErrorIs(t, err, staff.ErrInvalidRole)
	})
}
