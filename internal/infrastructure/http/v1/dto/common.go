// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// ItemsResponse wraps an unpaged list.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// NewItemsResponse never encodes items as null.
func NewItemsResponse[T any](items []T) ItemsResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ItemsResponse[T]{Items: items}
}

// --- Base DTOs ---

// BaseResponse contains common response fields.
type BaseResponse struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// --- Catalog DTOs ---

// CatalogResponse contains catalog fields.
type CatalogResponse struct {
	BaseResponse
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// FromCatalog creates CatalogResponse from entity.Catalog.
func FromCatalog(c entity.Catalog) CatalogResponse {
	return CatalogResponse{
		BaseResponse: BaseResponse{
			ID:        c.ID.String(),
			Version:   c.Version,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		Name:   c.Name,
		Active: c.Active,
	}
}

// --- Document DTOs ---

// DocumentResponse contains document header fields.
type DocumentResponse struct {
	BaseResponse
	Number      string                `json:"number"`
	Status      entity.DocumentStatus `json:"status"`
	Notes       string                `json:"notes,omitempty"`
	CreatedBy   string                `json:"createdBy"`
	ValidatedBy *string               `json:"validatedBy,omitempty"`
	CompletedAt *time.Time            `json:"completedAt,omitempty"`
}

// FromDocument creates DocumentResponse from entity.Document.
func FromDocument(d entity.Document) DocumentResponse {
	resp := DocumentResponse{
		BaseResponse: BaseResponse{
			ID:        d.ID.String(),
			Version:   d.Version,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		Number:      d.Number,
		Status:      d.Status,
		Notes:       d.Notes,
		CreatedBy:   d.CreatedBy.String(),
		CompletedAt: d.CompletedAt,
	}
	if d.ValidatedBy != nil {
		v := d.ValidatedBy.String()
		resp.ValidatedBy = &v
	}
	return resp
}

// VersionRequest carries the version the client last saw. Zero skips the check.
type VersionRequest struct {
	Version int `json:"version" binding:"min=0"`
}

// --- ID helpers ---

// ParseID parses an id already checked by the uuid binding tag.
func ParseID(s string) id.ID {
	parsed, _ := id.Parse(s)
	return parsed
}

// ParseOptionalID parses an optional id already checked by the uuid binding tag.
func ParseOptionalID(s *string) *id.ID {
	if s == nil || *s == "" {
		return nil
	}
	parsed := ParseID(*s)
	return &parsed
}

func optionalString(v *id.ID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
