package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// countingSurface records how often the widget was actually driven.
type countingSurface struct {
	shows int
	hides int
}

func (s *countingSurface) Show() { s.shows++ }
func (s *countingSurface) Hide() { s.hides++ }

func TestShowIsIdempotent(t *testing.T) {
	widget := &countingSurface{}
	coord := NewCoordinator()
	coord.Register(SurfaceDetail, widget)

	coord.Show(SurfaceDetail)
	coord.Show(SurfaceDetail)

	assert.True(t, coord.Visible(SurfaceDetail), "second Show must not toggle off")
	assert.Equal(t, 1, widget.shows, "widget driven only on the transition")
}

func TestHideIsIdempotent(t *testing.T) {
	widget := &countingSurface{}
	coord := NewCoordinator()
	coord.Register(SurfaceCartPanel, widget)

	coord.Show(SurfaceCartPanel)
	coord.Hide(SurfaceCartPanel)
	coord.Hide(SurfaceCartPanel)

	assert.False(t, coord.Visible(SurfaceCartPanel))
	assert.Equal(t, 1, widget.hides)
}

func TestSurfacesAreIndependent(t *testing.T) {
	detailWidget := &countingSurface{}
	cartWidget := &countingSurface{}
	coord := NewCoordinator()
	coord.Register(SurfaceDetail, detailWidget)
	coord.Register(SurfaceCartPanel, cartWidget)

	coord.Show(SurfaceDetail)

	assert.True(t, coord.Visible(SurfaceDetail))
	assert.False(t, coord.Visible(SurfaceCartPanel))
	assert.Zero(t, cartWidget.shows)
}

func TestUnregisteredSurfaceIsIgnored(t *testing.T) {
	coord := NewCoordinator()

	coord.Show("no-such-surface")
	coord.Hide("no-such-surface")

	assert.False(t, coord.Visible("no-such-surface"))
}
