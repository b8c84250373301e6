package server

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmitRemoveBalance(t *testing.T) {
	reg := NewRegistry()

	a := reg.Admit(nil)
	b := reg.Admit(nil)
	c := reg.Admit(nil)
	assert.Equal(t, 3, reg.Len())
	assert.Len(t, reg.Snapshot(), 3)

	_, ok := reg.Remove(b.ID)
	require.True(t, ok)
	assert.Equal(t, 2, reg.Len())
	assert.Nil(t, reg.Get(b.ID))

	// 移除需幂等：断开与错误路径可能竞争
	_, ok = reg.Remove(b.ID)
	assert.False(t, ok)
	assert.Equal(t, 2, reg.Len())

	reg.Remove(a.ID)
	reg.Remove(c.ID)
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Snapshot())
}

func TestIDsMonotonicNeverReused(t *testing.T) {
	reg := NewRegistry()

	p0 := reg.Admit(nil)
	p1 := reg.Admit(nil)
	p2 := reg.Admit(nil)
	assert.Equal(t, PlayerID(0), p0.ID)
	assert.Equal(t, PlayerID(1), p1.ID)
	assert.Equal(t, PlayerID(2), p2.ID)

	// 即使有人离开，id 也不回收
	reg.Remove(p1.ID)
	p3 := reg.Admit(nil)
	assert.Equal(t, PlayerID(3), p3.ID)
}

func TestAdmitSpawnWithinBounds(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 100; i++ {
		p := reg.Admit(nil)
		assert.GreaterOrEqual(t, p.X, 50.0)
		assert.Less(t, p.X, 150.0)
		assert.GreaterOrEqual(t, p.Y, 50.0)
		assert.Less(t, p.Y, 350.0)
		// 初始分数即出生 X
		assert.Equal(t, p.X, p.MaxX)
	}
}

func TestSnapshotOrderedByID(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 10; i++ {
		reg.Admit(nil)
	}
	snap := reg.Snapshot()
	require.Len(t, snap, 10)
	for i, st := range snap {
		assert.Equal(t, i, st.ID)
	}
}

var colorRe = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func TestRandomColorAvoidsNearWhite(t *testing.T) {
	for i := 0; i < 500; i++ {
		c := randomColor()
		require.Regexp(t, colorRe, c)
		r, err := strconv.ParseInt(c[1:3], 16, 0)
		require.NoError(t, err)
		g, err := strconv.ParseInt(c[3:5], 16, 0)
		require.NoError(t, err)
		b, err := strconv.ParseInt(c[5:7], 16, 0)
		require.NoError(t, err)
		assert.False(t, r > 200 && g > 200 && b > 200, "near-white color %s", c)
	}
}
