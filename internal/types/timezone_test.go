package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimezone(t *testing.T) {
	assert.Equal(t, "America/Sao_Paulo", ResolveTimezone("BRT"))
	assert.Equal(t, "America/Sao_Paulo", ResolveTimezone("brt"))
	assert.Equal(t, "Asia/Kolkata", ResolveTimezone("IST"))

	// IANA names pass through untouched
	assert.Equal(t, "Europe/Paris", ResolveTimezone("Europe/Paris"))
	assert.Equal(t, "UTC", ResolveTimezone("UTC"))
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("BRT"))
	assert.NoError(t, ValidateTimezone("America/Sao_Paulo"))
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.Error(t, ValidateTimezone("Not/AZone"))
}

func TestLoadTimezone(t *testing.T) {
	loc, err := LoadTimezone("BRT")
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())

	_, err = LoadTimezone("Not/AZone")
	assert.Error(t, err)
}
