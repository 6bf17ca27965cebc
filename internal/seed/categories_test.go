package seed

import (
	"testing"

	"forumhub/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCategories_Idempotent(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(&models.Category{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	err = Categories(db)
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	err = Categories(db)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var count int64
	err = db.Model(&models.Category{}).Count(&count).Error
	if err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if count != int64(len(BuiltInCategories)) {
		t.Fatalf("expected %d categories, got %d", len(BuiltInCategories), count)
	}

	for _, item := range BuiltInCategories {
		var c models.Category
		err = db.Where("slug = ?", item.Slug).First(&c).Error
		if err != nil {
			t.Fatalf("missing category %s: %v", item.Slug, err)
		}
		if c.Name != item.Name {
			t.Fatalf("expected category %s name %q, got %q", item.Slug, item.Name, c.Name)
		}
		if c.AdminOnly != item.AdminOnly {
			t.Fatalf("expected category %s admin_only=%v", item.Slug, item.AdminOnly)
		}
	}

	var announcements models.Category
	err = db.Where("slug = ?", models.AnnouncementsSlug).First(&announcements).Error
	if err != nil {
		t.Fatalf("missing announcements category: %v", err)
	}
	if !announcements.AdminOnly {
		t.Fatal("expected announcements category to be admin only")
	}
}

func TestCategories_PreservesExistingIDs(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := Categories(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	var before models.Category
	if err := db.Where("slug = ?", "general-discussion").First(&before).Error; err != nil {
		t.Fatalf("load category: %v", err)
	}

	// A rename in the built-in list must update in place, not recreate.
	if err := db.Model(&models.Category{}).Where("slug = ?", "general-discussion").
		Update("name", "Renamed By Admin").Error; err != nil {
		t.Fatalf("rename: %v", err)
	}

	if err := Categories(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var after models.Category
	if err := db.Where("slug = ?", "general-discussion").First(&after).Error; err != nil {
		t.Fatalf("reload category: %v", err)
	}
	if after.ID != before.ID {
		t.Fatalf("expected stable ID %d, got %d", before.ID, after.ID)
	}
	if after.Name != "General Discussion" {
		t.Fatalf("expected seeded name to win, got %q", after.Name)
	}
}
