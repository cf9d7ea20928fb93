package notification

import (
	"omiam-waitlist/internal/domain/waitlist"
)

// Catalog is the immutable set of templates loaded at startup.
type Catalog struct {
	templates []Template
}

func NewCatalog(templates []Template) *Catalog {
	copied := make([]Template, len(templates))
	copy(copied, templates)
	return &Catalog{templates: copied}
}

func NewDefaultCatalog() *Catalog {
	return NewCatalog(DefaultTemplates())
}

// ActiveFor returns the first active template of the category.
func (c *Catalog) ActiveFor(category Category) (Template, bool) {
	for _, t := range c.templates {
		if t.Category == category && t.Active {
			return t, true
		}
	}
	return Template{}, false
}

func (c *Catalog) All() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

var allVariables = []string{"customerName", "guestCount", "date", "timeSlot", "position", "estimatedWaitTime"}

func DefaultTemplates() []Template {
	return []Template{
		{
			ID:        "waitlist-confirmation",
			Name:      "Confirmation d'inscription",
			Category:  CategoryConfirmation,
			Channels:  []waitlist.NotificationType{waitlist.NotificationEmail, waitlist.NotificationSMS},
			Subject:   "Vous êtes sur la liste d'attente O'MIAM",
			Content:   "Bonjour {{customerName}}, votre demande pour {{guestCount}} personnes le {{date}} à {{timeSlot}} est enregistrée. Position actuelle : {{position}}, attente estimée : {{estimatedWaitTime}} minutes.",
			Variables: allVariables,
			Active:    true,
		},
		{
			ID:        "waitlist-availability",
			Name:      "Table disponible",
			Category:  CategoryAvailability,
			Channels:  []waitlist.NotificationType{waitlist.NotificationSMS, waitlist.NotificationEmail},
			Subject:   "Une table vous attend chez O'MIAM",
			Content:   "Bonne nouvelle {{customerName}} ! Une table pour {{guestCount}} personnes est disponible le {{date}} à {{timeSlot}}. Merci de confirmer rapidement.",
			Variables: []string{"customerName", "guestCount", "date", "timeSlot"},
			Active:    true,
		},
		{
			ID:        "waitlist-reminder",
			Name:      "Rappel liste d'attente",
			Category:  CategoryReminder,
			Channels:  []waitlist.NotificationType{waitlist.NotificationEmail},
			Subject:   "Toujours sur la liste d'attente",
			Content:   "{{customerName}}, vous êtes en position {{position}} pour le {{date}}. Attente estimée : {{estimatedWaitTime}} minutes.",
			Variables: []string{"customerName", "position", "date", "estimatedWaitTime"},
			Active:    true,
		},
		{
			ID:        "waitlist-expiration",
			Name:      "Expiration de la demande",
			Category:  CategoryExpiration,
			Channels:  []waitlist.NotificationType{waitlist.NotificationEmail, waitlist.NotificationSMS},
			Subject:   "Votre demande a expiré",
			Content:   "{{customerName}}, votre demande pour le {{date}} a expiré. N'hésitez pas à vous réinscrire.",
			Variables: []string{"customerName", "date"},
			Active:    true,
		},
	}
}
