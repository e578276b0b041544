package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

// Field is an optional value in a partial update. It distinguishes a field
// that was omitted from one that was explicitly set to null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Ptr returns the value as a pointer, or nil when the field is null.
func (f Field[T]) Ptr() *T {
	if !f.Present() {
		return nil
	}
	v := f.Value
	return &v
}

// UnmarshalJSON is only invoked for keys present in the document, which is
// what marks the field as set.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON encodes unset and null fields as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// ExercisePatch carries the fields of an exercise update.
type ExercisePatch struct {
	Name        Field[string]
	Description Field[string]
	Category    Field[Category]
}

// IsEmpty reports whether no field was supplied.
func (p ExercisePatch) IsEmpty() bool {
	return !p.Name.Set && !p.Description.Set && !p.Category.Set
}

// ValidateReplace checks a full replacement: name and description must be
// present and non-blank.
func (p ExercisePatch) ValidateReplace() error {
	if !p.Name.Present() || strings.TrimSpace(p.Name.Value) == "" {
		return NewValidationError("name", "name is required", ErrEmptyExerciseName)
	}
	if !p.Description.Present() || strings.TrimSpace(p.Description.Value) == "" {
		return NewValidationError("description", "description is required", nil)
	}
	return p.Validate()
}

// Validate checks the supplied fields only.
func (p ExercisePatch) Validate() error {
	if p.Name.Set {
		if p.Name.Null || strings.TrimSpace(p.Name.Value) == "" {
			return ErrEmptyExerciseName
		}
		if utf8.RuneCountInString(strings.TrimSpace(p.Name.Value)) > MaxExerciseNameLength {
			return ErrExerciseNameTooLong
		}
	}
	if p.Description.Present() && utf8.RuneCountInString(p.Description.Value) > MaxExerciseDescriptionLength {
		return ErrDescriptionTooLong
	}
	if p.Category.Set && (p.Category.Null || !p.Category.Value.Valid()) {
		return ErrInvalidCategory
	}
	return nil
}

// Apply merges the supplied fields into e. The name is canonicalized.
func (p ExercisePatch) Apply(e *Exercise) {
	if p.Name.Present() {
		e.Name = CanonicalExerciseName(p.Name.Value)
	}
	if p.Description.Set {
		e.Description = p.Description.Ptr()
	}
	if p.Category.Present() {
		e.Category = p.Category.Value
	}
	e.Touch()
}

// WorkoutPatch carries the fields of a partial workout update. Exercises are
// appended as new rows; existing rows are never modified.
type WorkoutPatch struct {
	Date        Field[time.Time]
	Description Field[string]
	Exercises   Field[[]WorkoutExerciseInput]
}

// IsEmpty reports whether no field was supplied.
func (p WorkoutPatch) IsEmpty() bool {
	return !p.Date.Set && !p.Description.Set && !p.Exercises.Set
}

// Validate checks the supplied fields only.
func (p WorkoutPatch) Validate() error {
	if p.Date.Set && (p.Date.Null || p.Date.Value.IsZero()) {
		return ErrEmptyWorkoutDate
	}
	if p.Exercises.Set && p.Exercises.Null {
		return ErrNullWorkoutExercises
	}
	if p.Description.Present() && utf8.RuneCountInString(p.Description.Value) > MaxWorkoutDescriptionLength {
		return ErrWorkoutDescTooLong
	}
	for _, in := range p.Exercises.Value {
		if err := in.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the scalar fields into w.
func (p WorkoutPatch) Apply(w *Workout) {
	if p.Date.Present() {
		w.Date = TruncateDate(p.Date.Value)
	}
	if p.Description.Set {
		w.Description = p.Description.Ptr()
	}
	w.Touch()
}
