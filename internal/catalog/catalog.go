// Package catalog is the event catalog collaborator. The admission engine
// only consumes GetEvent; the rest backs the browsing and management API.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/eventdesk/registration-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// GetEvent returns the event or gorm.ErrRecordNotFound.
func (c *Catalog) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := c.db.WithContext(ctx).Preload("Category").First(&event, id).Error; err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	return &event, nil
}

// ListFilter narrows ListEvents. Zero values mean no filtering.
type ListFilter struct {
	CategoryID uint
	Search     string
	After      time.Time
}

func (c *Catalog) ListEvents(ctx context.Context, filter ListFilter) ([]models.Event, error) {
	q := c.db.WithContext(ctx).Preload("Category").Order("starts_at asc")
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if !filter.After.IsZero() {
		q = q.Where("starts_at >= ?", filter.After)
	}

	var events []models.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (c *Catalog) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := c.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// UpdateEvent saves the event row. Associations are left alone so a loaded
// Category snapshot is never written back.
func (c *Catalog) UpdateEvent(ctx context.Context, event *models.Event) error {
	if err := c.db.WithContext(ctx).Omit(clause.Associations).Save(event).Error; err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (c *Catalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (c *Catalog) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := c.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}
