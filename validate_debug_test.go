//go:build debug_fitsim

package fitsim_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/fitsim"
)

type brokenValidatable struct{}

func (brokenValidatable) Validate() error { return fitsim.ErrInvalidSize }

func TestDebugChecksPanic(t *testing.T) {
	require.Panics(t, func() { fitsim.AlignUp(100, 48) })
	require.NotPanics(t, func() { fitsim.AlignUp(100, 64) })
	require.Panics(t, func() { fitsim.DebugValidate(brokenValidatable{}) })
}
