package overlay

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadingShowHide(t *testing.T) {
	l := NewLoading()
	require.False(t, l.Visible())
	require.Equal(t, "", l.View())

	h := l.Show("Carregando...")
	require.NotZero(t, h)
	require.True(t, l.Visible())
	require.Contains(t, l.View(), "Carregando...")

	l.Hide(h)
	require.False(t, l.Visible())
	require.Equal(t, "", l.View())

	// hiding again, or hiding nothing, is a no-op
	l.Hide(h)
	l.Hide(0)
	require.False(t, l.Visible())
}

func TestLoadingLastShowWins(t *testing.T) {
	l := NewLoading()
	first := l.Show("one")
	second := l.Show("two")
	require.NotEqual(t, first, second)
	require.Contains(t, l.View(), "two")

	l.Hide(first)
	require.True(t, l.Visible(), "stale handle must not hide the newer overlay")

	l.Hide(second)
	require.False(t, l.Visible())
}

func TestLoadingConcurrentShowHide(t *testing.T) {
	l := NewLoading()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := l.Show("x")
			l.Hide(h)
		}()
	}
	wg.Wait()
	// whichever Show came last was hidden by its own caller
	require.False(t, l.Visible())
}

func TestCenterPlacesLayer(t *testing.T) {
	base := strings.Join([]string{
		"..........",
		"..........",
		"..........",
	}, "\n")
	got := Center(base, "ab", 10, 3)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "..........", lines[0])
	require.Equal(t, "....ab....", lines[1])
}

func TestBottomRightPadsShortBase(t *testing.T) {
	got := BottomRight("top", "XY", 6, 3, 0)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "top", lines[0])
	require.Equal(t, "    XY", lines[2])
}

func TestEmptyLayerLeavesBase(t *testing.T) {
	require.Equal(t, "base", Center("base", "", 10, 3))
	require.Equal(t, "base", BottomRight("base", "", 10, 3, 1))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "", Truncate("hello", 0))
	require.Equal(t, "hello", Truncate("hello", 10))
	require.Equal(t, "hel…", Truncate("hello", 4))
}
