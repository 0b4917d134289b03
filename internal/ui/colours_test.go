package ui_test

import (
	"testing"

	"github.com/jrsteele09/go-tasks/internal/ui"
	"github.com/stretchr/testify/require"
)

func TestMethod(t *testing.T) {
	require.Equal(t, ui.Blue+" POST   "+ui.ResetColor, ui.Method("POST"))
	require.Equal(t, ui.Gray+" TRACE  "+ui.ResetColor, ui.Method("TRACE"))
}
