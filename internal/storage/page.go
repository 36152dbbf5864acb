package storage

import (
	apperrors "github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/model"
)

// PageSize is the fixed number of habits per result page.
const PageSize = 5

// HabitPage is one page of a habit listing.
type HabitPage struct {
	Count   int            `json:"count"`
	Page    int            `json:"page"`
	Results []*model.Habit `json:"results"`
}

// Paginate slices a habit listing into the requested 1-based page.
// Count always reports the full listing size. Page 1 of an empty listing
// is valid; any page past the end fails with ErrPageNotFound.
func Paginate(habits []*model.Habit, page int) (*HabitPage, error) {
	if page < 1 {
		return nil, apperrors.NewUserErrorWithField("page", "",
			"page number out of range",
			"Pages are numbered from 1")
	}

	start := (page - 1) * PageSize
	if start >= len(habits) && page != 1 {
		return nil, apperrors.ErrPageNotFound
	}

	end := start + PageSize
	if end > len(habits) {
		end = len(habits)
	}

	results := habits[start:end]
	if results == nil {
		results = []*model.Habit{}
	}

	return &HabitPage{
		Count:   len(habits),
		Page:    page,
		Results: results,
	}, nil
}
