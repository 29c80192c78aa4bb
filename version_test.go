package facesheet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	facesheet "github.com/0xalexb/facesheet"
)

func TestVersion_DefaultValues(t *testing.T) {
	t.Parallel()

	require.Equal(t, "dev", facesheet.Version)
	require.Equal(t, "unknown", facesheet.CompiledAt)
}
