package core

import (
	"errors"
	"fmt"
	"strings"
)

type (
	IncomeItem struct {
		ID     int64  `json:"id"`
		Source string `json:"source"`
		Amount Amount `json:"amount"`
	}

	ExpenseItem struct {
		ID          int64  `json:"id"`
		Description string `json:"description"`
		Amount      Amount `json:"amount"`
		Category    string `json:"category"`
	}

	// IncomeDraft is the raw add/edit form input for an income item.
	IncomeDraft struct {
		Source string
		Amount string
	}

	// ExpenseDraft is the raw add/edit form input for an expense item.
	ExpenseDraft struct {
		Description string
		Amount      string
		Category    string
	}
)

var (
	ErrEmptySource      = errors.New("empty income source")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyAmount      = errors.New("empty amount")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrAmountTooLarge   = fmt.Errorf("%w: too large", ErrInvalidAmount)

	errTextTooLong = errors.New("text too long (max 200 characters)")
)

const maxTextLen = 200

// IsValidationError reports whether err is one of the draft validation errors.
func IsValidationError(err error) bool {
	for _, target := range []error{ErrEmptySource, ErrEmptyDescription, ErrEmptyCategory, ErrEmptyAmount, ErrInvalidAmount, errTextTooLong} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Parse validates the draft and builds an item with the given id.
func (d IncomeDraft) Parse(id int64) (IncomeItem, error) {
	source := strings.TrimSpace(d.Source)
	if source == "" {
		return IncomeItem{}, ErrEmptySource
	}
	if len(source) > maxTextLen {
		return IncomeItem{}, errTextTooLong
	}
	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return IncomeItem{}, err
	}
	return IncomeItem{ID: id, Source: source, Amount: amount}, nil
}

// IsEmpty is true when no field has been filled in.
func (d IncomeDraft) IsEmpty() bool {
	return d == IncomeDraft{}
}

// Parse validates the draft and builds an item with the given id.
func (d ExpenseDraft) Parse(id int64) (ExpenseItem, error) {
	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		return ExpenseItem{}, ErrEmptyDescription
	}
	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return ExpenseItem{}, err
	}
	category := strings.TrimSpace(d.Category)
	if category == "" {
		return ExpenseItem{}, ErrEmptyCategory
	}
	if len(desc) > maxTextLen || len(category) > maxTextLen {
		return ExpenseItem{}, errTextTooLong
	}
	return ExpenseItem{ID: id, Description: desc, Amount: amount, Category: category}, nil
}

func (d ExpenseDraft) IsEmpty() bool {
	return d == ExpenseDraft{}
}

// Draft returns the form representation of the item, used to prefill edit
// dialogs.
func (i IncomeItem) Draft() IncomeDraft {
	return IncomeDraft{Source: i.Source, Amount: i.Amount.String()}
}

func (e ExpenseItem) Draft() ExpenseDraft {
	return ExpenseDraft{Description: e.Description, Amount: e.Amount.String(), Category: e.Category}
}
