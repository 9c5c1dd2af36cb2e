package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillInputValidate(t *testing.T) {
	tests := []struct {
		name string
		in   SkillInput
		want FieldErrors
	}{
		{
			name: "valid without level",
			in:   SkillInput{Name: "Fireball", Description: "Throws fire"},
		},
		{
			name: "valid with integral float level",
			in:   SkillInput{Name: "Fireball", Description: "Throws fire", Level: "3.0"},
		},
		{
			name: "blank fields",
			in:   SkillInput{Name: "   ", Description: "\t"},
			want: FieldErrors{FieldName: "Name is required", FieldDescription: "Description is required"},
		},
		{
			name: "too long after trim",
			in:   SkillInput{Name: strings.Repeat("n", 51), Description: strings.Repeat("d", 151)},
			want: FieldErrors{FieldName: "Name must be 50 characters or less", FieldDescription: "Description must be 150 characters or less"},
		},
		{
			name: "limits counted in characters",
			in:   SkillInput{Name: strings.Repeat("é", 50), Description: "  " + strings.Repeat("d", 150) + "  "},
		},
		{
			name: "level out of range",
			in:   SkillInput{Name: "A", Description: "a", Level: "1000"},
			want: FieldErrors{FieldLevel: "Level must be a number >= 0 and <= 999"},
		},
		{
			name: "negative level",
			in:   SkillInput{Name: "A", Description: "a", Level: "-1"},
			want: FieldErrors{FieldLevel: "Level must be a number >= 0 and <= 999"},
		},
		{
			name: "fractional level",
			in:   SkillInput{Name: "A", Description: "a", Level: "2.5"},
			want: FieldErrors{FieldLevel: "Level must be a number >= 0 and <= 999"},
		},
		{
			name: "non numeric level",
			in:   SkillInput{Name: "A", Description: "a", Level: "high"},
			want: FieldErrors{FieldLevel: "Level must be a number >= 0 and <= 999"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.want, fe)
		})
	}
}

func TestSkillInputData(t *testing.T) {
	data, err := SkillInput{Name: "  <i>Ice</i> Blast ", Description: "Freeze {{enemies}} now", Level: " 12 "}.Data()
	require.NoError(t, err)
	assert.Equal(t, "Ice Blast", data.Name)
	assert.Equal(t, "Freeze   now", data.Description)
	require.NotNil(t, data.Level)
	assert.Equal(t, 12, *data.Level)
	assert.False(t, data.Unlocked)
}

func TestSkillInputDataMarkupOnly(t *testing.T) {
	_, err := SkillInput{Name: "<script>alert(1)</script>", Description: "ok"}.Data()
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldErrors{FieldName: "Name is required"}, fe)
}

func TestFieldErrorsString(t *testing.T) {
	fe := FieldErrors{FieldName: "Name is required", FieldLevel: "bad"}
	assert.Equal(t, "level: bad; name: Name is required", fe.Error())
}
