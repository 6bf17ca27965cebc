package seed

import (
	"fmt"

	"forumhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInCategory is a permanent system category.
type BuiltInCategory struct {
	Name        string
	Slug        string
	Description string
	Icon        string
	Color       string
	SortOrder   int
	AdminOnly   bool
	GroupLabel  string
}

// BuiltInCategories defines the permanent system categories. The
// announcements category is special: only staff may start threads there
// and the landing page surfaces its newest threads.
var BuiltInCategories = []BuiltInCategory{
	{Name: "Announcements", Slug: models.AnnouncementsSlug, Description: "Official news and platform updates.", Icon: "megaphone", Color: "#e11d48", SortOrder: 0, AdminOnly: true, GroupLabel: "Official"},
	{Name: "General Discussion", Slug: "general-discussion", Description: "Anything that doesn't fit elsewhere.", Icon: "chat", Color: "#2563eb", SortOrder: 10, GroupLabel: "Community"},
	{Name: "Introductions", Slug: "introductions", Description: "New here? Say hello.", Icon: "wave", Color: "#16a34a", SortOrder: 20, GroupLabel: "Community"},
	{Name: "Help & Support", Slug: "help-support", Description: "Questions and troubleshooting.", Icon: "lifebuoy", Color: "#d97706", SortOrder: 30, GroupLabel: "Community"},
	{Name: "Hardware", Slug: "hardware-talk", Description: "Builds, upgrades, and tuning.", Icon: "cpu", Color: "#7c3aed", SortOrder: 40, GroupLabel: "Topics"},
	{Name: "Software", Slug: "software-talk", Description: "Operating systems, tools, and workflows.", Icon: "terminal", Color: "#0891b2", SortOrder: 50, GroupLabel: "Topics"},
	{Name: "Gaming", Slug: "gaming-lounge", Description: "Gaming across every platform.", Icon: "gamepad", Color: "#db2777", SortOrder: 60, GroupLabel: "Topics"},
	{Name: "Buy & Sell", Slug: "buy-sell", Description: "Community marketplace listings.", Icon: "tag", Color: "#ca8a04", SortOrder: 70, GroupLabel: "Marketplace"},
	{Name: "Off Topic", Slug: "off-topic", Description: "Everything else under the sun.", Icon: "sparkles", Color: "#64748b", SortOrder: 80, GroupLabel: "Community"},
}

// Categories seeds the permanent built-in categories. Safe to run on every
// startup: existing rows are updated in place, never duplicated.
func Categories(db *gorm.DB) error {
	for _, item := range BuiltInCategories {
		category := models.Category{
			Name:        item.Name,
			Slug:        item.Slug,
			Description: item.Description,
			Icon:        item.Icon,
			Color:       item.Color,
			SortOrder:   item.SortOrder,
			AdminOnly:   item.AdminOnly,
			GroupLabel:  item.GroupLabel,
		}

		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "color", "sort_order", "admin_only", "group_label", "updated_at"}),
		}).Create(&category).Error; err != nil {
			return fmt.Errorf("seed built-in category %s: %w", item.Slug, err)
		}
	}

	return nil
}
