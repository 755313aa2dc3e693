package textmatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_FoldsCase(t *testing.T) {
	assert.Equal(t, Key("Sugar"), Key("sUGAR"))
	assert.Equal(t, Key("Straße"), Key("STRASSE"))
	assert.NotEqual(t, Key("Sugar"), Key("Sugars"))
}

func TestKey_NormalizesComposition(t *testing.T) {
	// precomposed é vs e + combining acute
	assert.Equal(t, Key("Caf\u00e9"), Key("CAFE\u0301"))
}

func TestKey_Substring(t *testing.T) {
	assert.True(t, strings.Contains(Key("Brown Sugar"), Key("n s")))
	assert.True(t, strings.Contains(Key("Butter"), Key("")))
	assert.False(t, strings.Contains(Key("Butter"), Key("sugar")))
}
