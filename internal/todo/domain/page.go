package domain

import (
	"math"

	"github.com/AlibekovAA/tada/internal/common/constants"
)

type PageRequest struct {
	Page int
	Size int
}

// Normalize applies the defaults and clamps size to the allowed maximum.
// Page is capped so that Offset never overflows.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = constants.DefaultPageIndex
	}
	if p.Size <= 0 {
		p.Size = constants.DefaultPageSize
	}
	if p.Size > constants.MaxPageSize {
		p.Size = constants.MaxPageSize
	}
	if p.Page > p.MaxPage() {
		p.Page = p.MaxPage()
	}
	return p
}

// MaxPage is the largest page index whose offset fits in an int.
func (p PageRequest) MaxPage() int {
	if p.Size <= 0 {
		return math.MaxInt
	}
	return math.MaxInt / p.Size
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

type Page struct {
	Content       []Todo
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

func NewPage(content []Todo, req PageRequest, total int64) Page {
	if content == nil {
		content = []Todo{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
