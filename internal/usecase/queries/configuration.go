package queries

import (
	"context"

	"omiam-waitlist/internal/domain/notification"
	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/usecase/shared"
)

type ConfigurationQueries interface {
	Get(ctx context.Context) waitlist.Configuration
	Templates(ctx context.Context) []TemplateView
}

type configurationQueriesImpl struct {
	holder  *shared.ConfigurationHolder
	catalog *notification.Catalog
}

func NewConfigurationQueries(holder *shared.ConfigurationHolder, catalog *notification.Catalog) ConfigurationQueries {
	return &configurationQueriesImpl{holder: holder, catalog: catalog}
}

func (q *configurationQueriesImpl) Get(_ context.Context) waitlist.Configuration {
	return q.holder.Get()
}

func (q *configurationQueriesImpl) Templates(_ context.Context) []TemplateView {
	templates := q.catalog.All()
	views := make([]TemplateView, len(templates))
	for i, t := range templates {
		views[i] = toTemplateView(t)
	}
	return views
}
