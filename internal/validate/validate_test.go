package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"barstore/internal/domain"
	"barstore/internal/validate"
)

func TestBarID(t *testing.T) {
	cases := map[string]struct {
		id int
		ok bool
	}{
		"42":         {42, true},
		" 7 ":        {7, true},
		"0":          {0, false},
		"-1":         {0, false},
		"042":        {0, false},
		"abc":        {0, false},
		"":           {0, false},
		"1234567890": {0, false},
	}
	for in, want := range cases {
		id, ok := validate.BarID(in)
		require.Equal(t, want.ok, ok, in)
		require.Equal(t, want.id, id, in)
	}
}

func TestAction(t *testing.T) {
	a, ok := validate.Action("increment")
	require.True(t, ok)
	require.Equal(t, domain.ActionIncrement, a)

	a, ok = validate.Action(" DELETE ")
	require.True(t, ok)
	require.Equal(t, domain.ActionDelete, a)

	_, ok = validate.Action("DOUBLE")
	require.False(t, ok)
	_, ok = validate.Action("")
	require.False(t, ok)
}

func TestReturnPath(t *testing.T) {
	require.Equal(t, "/cart", validate.ReturnPath("/cart"))
	require.Equal(t, "/", validate.ReturnPath("/"))
	require.Equal(t, "/", validate.ReturnPath("https://evil.example"))
	require.Equal(t, "/", validate.ReturnPath("//evil.example"))
}
