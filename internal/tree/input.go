package tree

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/skilltree/internal/sanitize"
	"github.com/abhisek/skilltree/internal/skillgraph"
)

// Field names used as FieldErrors keys.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldLevel       = "level"
)

var fieldMessages = map[string]map[string]string{
	FieldName: {
		"required": "Name is required",
		"max":      "Name must be 50 characters or less",
	},
	FieldDescription: {
		"required": "Description is required",
		"max":      "Description must be 150 characters or less",
	},
	FieldLevel: {
		"skill_level": "Level must be a number >= 0 and <= 999",
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("skill_level", func(fl validator.FieldLevel) bool {
		_, ok := parseLevel(fl.Field().String())
		return ok
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("field")
	})
	return v
}

// SkillInput is the raw add-skill form. Level is free text; empty means
// no level.
type SkillInput struct {
	Name        string `field:"name" validate:"required,max=50"`
	Description string `field:"description" validate:"required,max=150"`
	Level       string `field:"level" validate:"omitempty,skill_level"`
}

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// trimmed returns a copy with surrounding whitespace removed from every field.
func (in SkillInput) trimmed() SkillInput {
	return SkillInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Level:       strings.TrimSpace(in.Level),
	}
}

// Validate checks the form. It returns FieldErrors or nil.
func (in SkillInput) Validate() error {
	err := validate.Struct(in.trimmed())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg := fieldMessages[fe.Field()][fe.Tag()]
		if msg == "" {
			msg = "Invalid " + fe.Field()
		}
		out[fe.Field()] = msg
	}
	return out
}

// Data validates the form and converts it to sanitized skill data.
// Text that is empty once markup is stripped counts as missing.
func (in SkillInput) Data() (skillgraph.SkillData, error) {
	if err := in.Validate(); err != nil {
		return skillgraph.SkillData{}, err
	}
	t := in.trimmed()
	data := skillgraph.SkillData{
		Name:        sanitize.Text(t.Name),
		Description: sanitize.Text(t.Description),
	}
	errs := FieldErrors{}
	if data.Name == "" {
		errs[FieldName] = fieldMessages[FieldName]["required"]
	}
	if data.Description == "" {
		errs[FieldDescription] = fieldMessages[FieldDescription]["required"]
	}
	if len(errs) > 0 {
		return skillgraph.SkillData{}, errs
	}
	if t.Level != "" {
		lvl, _ := parseLevel(t.Level)
		data.Level = &lvl
	}
	return data, nil
}

// parseLevel accepts integral numbers in [MinLevel, MaxLevel], including
// forms such as "3.0".
func parseLevel(s string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < skillgraph.MinLevel || f > skillgraph.MaxLevel {
		return 0, false
	}
	return int(f), true
}
