package app

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Color_Wheel_Walks_Whole_Palette(t *testing.T) {
	req := require.New(t)
	wheel := NewColorWheel()

	var first []string
	for i := 0; i < len(palette); i++ {
		first = append(first, wheel.Next())
	}
	req.Len(lo.Uniq(first), len(palette))
	req.Equal(palette[:], first)
}

func Test_Color_Wheel_Wraps_Around(t *testing.T) {
	req := require.New(t)
	wheel := NewColorWheel()

	for i := 0; i < 3*len(palette); i++ {
		req.Equal(palette[i%len(palette)], wheel.Next())
	}
}
