package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category groups catalog exercises by the body area they train.
type Category string

// Known exercise categories.
const (
	CategoryChest      Category = "chest"
	CategoryBack       Category = "back"
	CategoryLegs       Category = "legs"
	CategoryShoulders  Category = "shoulders"
	CategoryArms       Category = "arms"
	CategoryAbs        Category = "abs"
	CategoryCardio     Category = "cardio"
	CategoryStretching Category = "stretching"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryChest,
	CategoryBack,
	CategoryLegs,
	CategoryShoulders,
	CategoryArms,
	CategoryAbs,
	CategoryCardio,
	CategoryStretching,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Field limits mirror the column sizes of the exercises table.
const (
	MaxExerciseNameLength        = 100
	MaxExerciseDescriptionLength = 500
)

var (
	ErrEmptyExerciseName   = fmt.Errorf("%w: exercise name cannot be empty", ErrValidation)
	ErrExerciseNameTooLong = fmt.Errorf("%w: exercise name must be at most %d characters", ErrValidation, MaxExerciseNameLength)
	ErrDescriptionTooLong  = fmt.Errorf("%w: description must be at most %d characters", ErrValidation, MaxExerciseDescriptionLength)
	ErrInvalidCategory     = fmt.Errorf("%w: invalid exercise category", ErrValidation)
)

// Exercise is a catalog entry that workouts reference.
type Exercise struct {
	Record
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Category    Category `json:"category"`
}

// NewExercise builds a validated exercise with a canonical name.
func NewExercise(name string, description *string, category Category) (*Exercise, error) {
	exercise := &Exercise{
		Record:      NewRecord(),
		Name:        CanonicalExerciseName(name),
		Description: description,
		Category:    category,
	}
	if err := exercise.Validate(); err != nil {
		return nil, err
	}
	return exercise, nil
}

// Validate checks the exercise invariants.
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyExerciseName
	}
	if utf8.RuneCountInString(e.Name) > MaxExerciseNameLength {
		return ErrExerciseNameTooLong
	}
	if e.Description != nil && utf8.RuneCountInString(*e.Description) > MaxExerciseDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// CanonicalExerciseName title-cases the first letter of name and leaves the
// remainder untouched, so "жим лежа" and "Жим лежа" collide while "Жим Лежа"
// stays distinct. Digraphs take their titlecase form ("ǆ" becomes "ǅ").
// Surrounding whitespace is trimmed.
func CanonicalExerciseName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	_, size := utf8.DecodeRuneInString(name)
	// Casers carry state, so one is built per call.
	return cases.Title(language.Und, cases.NoLower).String(name[:size]) + name[size:]
}
