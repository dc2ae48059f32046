package wizard

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"template_builder/internal/types"
)

func TestStepForCoversEveryKind(t *testing.T) {
	for _, kind := range FullFlow {
		step := StepFor(kind)
		assert.Equal(t, kind, step.Kind())
		assert.NotEmpty(t, step.Title())
		assert.NotEmpty(t, step.Help())
	}
}

func TestDescribeStepRequiresTenCharacters(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantErr     bool
	}{
		{name: "empty", description: "", wantErr: true},
		{name: "too short", description: "my blog", wantErr: true},
		{name: "padded short", description: "   shop      ", wantErr: true},
		{name: "exactly ten", description: "0123456789", wantErr: false},
		{name: "long", description: "A portfolio for a wedding photographer", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := types.DefaultSelection()
			sel.Description = tt.description
			err := StepFor(StepDescription).Validate(sel)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var stepErr *StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, "description", stepErr.Field)
		})
	}
}

func TestOptionalStepsNeverBlock(t *testing.T) {
	sel := types.Selection{}
	assert.NoError(t, StepFor(StepLogo).Validate(sel))
	assert.NoError(t, StepFor(StepResults).Validate(sel))
	assert.Error(t, StepFor(StepLayout).Validate(sel))
	assert.Error(t, StepFor(StepColor).Validate(sel))
	assert.Error(t, StepFor(StepTypography).Validate(sel))
}

func TestStepKindJSON(t *testing.T) {
	b, err := json.Marshal(CompactFlow)
	require.NoError(t, err)
	assert.JSONEq(t, `["description","color","typography","logo","layout"]`, string(b))
}
