package commands

import (
	"context"
	"log/slog"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/jinzhu/copier"
)

// ConfigurationPatch carries top-level sections to replace. Nil sections are kept.
type ConfigurationPatch struct {
	MaxWaitHours          *int
	NotificationIntervals []int
	AutoExpireAfter       *int
	MaxEntriesPerCustomer *int
	PriorityRules         *waitlist.PriorityRules
	Notifications         *waitlist.NotificationSettings
}

type ConfigurationCommands interface {
	Replace(ctx context.Context, cfg waitlist.Configuration) (waitlist.Configuration, error)
	Merge(ctx context.Context, patch ConfigurationPatch) (waitlist.Configuration, error)
}

type configurationUseCaseImpl struct {
	holder *shared.ConfigurationHolder
}

func NewConfigurationCommands(holder *shared.ConfigurationHolder) ConfigurationCommands {
	return &configurationUseCaseImpl{holder: holder}
}

func (uc *configurationUseCaseImpl) Replace(_ context.Context, cfg waitlist.Configuration) (waitlist.Configuration, error) {
	if err := cfg.Validate(); err != nil {
		return waitlist.Configuration{}, errs.Mark(err, ErrDomainValidation)
	}
	uc.holder.Replace(cfg)
	slog.Info("waitlist configuration replaced")
	return uc.holder.Get(), nil
}

func (uc *configurationUseCaseImpl) Merge(_ context.Context, patch ConfigurationPatch) (waitlist.Configuration, error) {
	updated, err := uc.holder.Update(func(cfg *waitlist.Configuration) error {
		if err := copier.CopyWithOption(cfg, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
			return errs.Wrap(err, "merge configuration")
		}
		*cfg = cfg.Clone()
		if err := cfg.Validate(); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		return nil
	})
	if err != nil {
		return waitlist.Configuration{}, err
	}
	slog.Info("waitlist configuration updated")
	return updated, nil
}
