package utils

import (
	"net/url"
	"strconv"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 6
	MaxPageLimit     = 100
)

type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads ?page= and ?limit= the way the listing endpoints
// accept them, falling back to sane defaults on bad input.
func ParsePagination(c *fiber.Ctx) Pagination {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Scope slices an ordered query down to the requested page.
func (p Pagination) Scope(db *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return db
	}
	return db.Offset(p.Offset()).Limit(p.Limit)
}

// Response wraps one page of results with count and next/previous links
// built from the current request URL.
func (p Pagination) Response(c *fiber.Ctx, count int64, results any) domain.PaginationResponse {
	res := domain.PaginationResponse{Count: count, Results: results}

	if int64(p.Page*p.Limit) < count {
		next := pageURL(c, p.Page+1, p.Limit)
		res.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1, p.Limit)
		res.Previous = &prev
	}
	return res
}

func pageURL(c *fiber.Ctx, page, limit int) string {
	q := url.Values{}
	for k, v := range c.Queries() {
		q.Set(k, v)
	}
	// Queries keeps only one value of a repeated key such as ?tags=a&tags=b
	if tags := c.Context().QueryArgs().PeekMulti("tags"); len(tags) > 0 {
		q.Del("tags")
		for _, tag := range tags {
			q.Add("tags", string(tag))
		}
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return c.BaseURL() + c.Path() + "?" + q.Encode()
}
