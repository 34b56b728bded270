package encounter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
)

func TestContactValidateRequiresAChannel(t *testing.T) {
	c := AlertContact{ID: "c-1", Name: "Ana"}
	err := c.Validate()
	assert.True(t, failure.Is(err, failure.InvalidContact))

	c.Phone = "+15551234567"
	assert.NoError(t, c.Validate())

	c.Phone = ""
	c.Email = "ana@example.com"
	assert.NoError(t, c.Validate())
}

func TestContactPatchApply(t *testing.T) {
	c := AlertContact{ID: "c-1", Name: "Ana", Phone: "+15551234567", Relationship: "sister"}

	name := "Ana Maria"
	patched := ContactPatch{Name: &name}.Apply(c)

	assert.Equal(t, "Ana Maria", patched.Name)
	assert.Equal(t, c.Phone, patched.Phone)
	assert.Equal(t, "Ana", c.Name)
}
