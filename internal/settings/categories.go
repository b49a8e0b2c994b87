package settings

import (
	"fmt"

	"spendlens/internal/models"
)

// ResolveCategories merges defaults, overrides and custom categories into
// the effective category list. Defaults are copied, never mutated, so any
// override can be unwound without losing the factory definition.
func ResolveCategories(s Settings) []models.Category {
	overrides := make(map[string]models.CategoryOverride, len(s.CategoryOverrides))
	for _, o := range s.CategoryOverrides {
		overrides[o.CategoryID] = o
	}

	var resolved []models.Category
	for _, cat := range models.DefaultCategories() {
		o, ok := overrides[cat.ID]
		if !ok {
			resolved = append(resolved, cat)
			continue
		}
		if o.Hidden {
			continue
		}
		if o.Name != "" {
			cat.Name = o.Name
		}
		if o.Color != "" {
			cat.Color = o.Color
		}
		if o.Icon != "" {
			cat.Icon = o.Icon
		}
		resolved = append(resolved, cat)
	}

	resolved = append(resolved, s.CustomCategories...)
	return resolved
}

// DeleteDefaultCategory soft-deletes a default category by recording a
// hidden override. The reserved uncategorized id cannot be deleted.
func DeleteDefaultCategory(s Settings, categoryID string) (Settings, error) {
	if categoryID == models.CategoryUncategorized {
		return s, fmt.Errorf("category %q is reserved and cannot be deleted", categoryID)
	}
	if !isDefaultCategory(categoryID) {
		return s, fmt.Errorf("category %q is not a default category", categoryID)
	}

	for i, o := range s.CategoryOverrides {
		if o.CategoryID == categoryID {
			s.CategoryOverrides[i].Hidden = true
			return s, nil
		}
	}
	s.CategoryOverrides = append(s.CategoryOverrides, models.CategoryOverride{
		CategoryID: categoryID,
		Hidden:     true,
	})
	return s, nil
}

// RestoreDefaultCategory un-hides a soft-deleted default category. Only the
// hidden flag is cleared: a rename or recolor recorded before the delete
// survives, so restore brings back the pre-delete definition. An override
// record carrying nothing else is dropped entirely.
func RestoreDefaultCategory(s Settings, categoryID string) (Settings, error) {
	if !isDefaultCategory(categoryID) {
		return s, fmt.Errorf("category %q is not a default category", categoryID)
	}

	kept := s.CategoryOverrides[:0]
	for _, o := range s.CategoryOverrides {
		if o.CategoryID != categoryID {
			kept = append(kept, o)
			continue
		}
		o.Hidden = false
		if o.Name != "" || o.Color != "" || o.Icon != "" {
			kept = append(kept, o)
		}
	}
	s.CategoryOverrides = kept
	return s, nil
}

// OverrideDefaultCategory records a rename/recolor of a default category.
// The reserved uncategorized id cannot be renamed.
func OverrideDefaultCategory(s Settings, override models.CategoryOverride) (Settings, error) {
	if override.CategoryID == models.CategoryUncategorized && override.Name != "" {
		return s, fmt.Errorf("category %q is reserved and cannot be renamed", override.CategoryID)
	}
	if !isDefaultCategory(override.CategoryID) {
		return s, fmt.Errorf("category %q is not a default category", override.CategoryID)
	}

	for i, o := range s.CategoryOverrides {
		if o.CategoryID == override.CategoryID {
			override.Hidden = o.Hidden
			s.CategoryOverrides[i] = override
			return s, nil
		}
	}
	s.CategoryOverrides = append(s.CategoryOverrides, override)
	return s, nil
}

func isDefaultCategory(categoryID string) bool {
	for _, cat := range models.DefaultCategories() {
		if cat.ID == categoryID {
			return true
		}
	}
	return false
}
