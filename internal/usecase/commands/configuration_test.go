//go:build unit

package commands_test

import (
	"context"
	"testing"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/pkg/ptr"
	"omiam-waitlist/internal/usecase/commands"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationCommands_Replace(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		holder := shared.NewConfigurationHolder(waitlist.DefaultConfiguration())
		cfg := waitlist.DefaultConfiguration()
		cfg.MaxWaitHours = 8

		got, err := commands.NewConfigurationCommands(holder).Replace(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, 8, got.MaxWaitHours)
		assert.Equal(t, 8, holder.Get().MaxWaitHours)

		cfg.NotificationIntervals[0] = 99
		assert.Equal(t, 24, holder.Get().NotificationIntervals[0])
	})

	t.Run("invalid configuration is rejected and nothing changes", func(t *testing.T) {
		holder := shared.NewConfigurationHolder(waitlist.DefaultConfiguration())
		cfg := waitlist.DefaultConfiguration()
		cfg.MaxEntriesPerCustomer = 0

		_, err := commands.NewConfigurationCommands(holder).Replace(ctx, cfg)
		assert.True(t, errs.Is(err, commands.ErrDomainValidation))
		assert.Equal(t, 3, holder.Get().MaxEntriesPerCustomer)
	})
}

func TestConfigurationCommands_Merge(t *testing.T) {
	ctx := context.Background()

	t.Run("scalar fields", func(t *testing.T) {
		holder := shared.NewConfigurationHolder(waitlist.DefaultConfiguration())

		got, err := commands.NewConfigurationCommands(holder).Merge(ctx, commands.ConfigurationPatch{
			MaxEntriesPerCustomer: ptr.Of(5),
			NotificationIntervals: []int{48},
		})
		require.NoError(t, err)
		assert.Equal(t, 5, got.MaxEntriesPerCustomer)
		assert.Equal(t, []int{48}, got.NotificationIntervals)
		assert.Equal(t, 4, got.MaxWaitHours)
		assert.Equal(t, waitlist.DefaultConfiguration().PriorityRules, got.PriorityRules)
	})

	t.Run("sections are replaced as a whole", func(t *testing.T) {
		holder := shared.NewConfigurationHolder(waitlist.DefaultConfiguration())
		notifications := waitlist.NotificationSettings{
			Email:      false,
			SMS:        true,
			QuietHours: waitlist.QuietHours{Enabled: true, Start: "23:00", End: "07:00"},
		}

		got, err := commands.NewConfigurationCommands(holder).Merge(ctx, commands.ConfigurationPatch{Notifications: &notifications})
		require.NoError(t, err)
		assert.False(t, got.Notifications.Email)
		assert.True(t, got.Notifications.QuietHours.Enabled)
		assert.Empty(t, got.Notifications.DateLayout)
		assert.Equal(t, 3, got.MaxEntriesPerCustomer)
	})

	t.Run("invalid result keeps the previous configuration", func(t *testing.T) {
		holder := shared.NewConfigurationHolder(waitlist.DefaultConfiguration())

		_, err := commands.NewConfigurationCommands(holder).Merge(ctx, commands.ConfigurationPatch{MaxWaitHours: ptr.Of(-1)})
		assert.True(t, errs.Is(err, commands.ErrDomainValidation))
		assert.Equal(t, 4, holder.Get().MaxWaitHours)
	})
}
