package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/clock"
	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/testutil"
	"github.com/roach88/timesheet/internal/timing"
)

const twoPlayersDoc = `<video id="v1"></video><video id="v2"></video>
<div id="one" timeContainer="par" mediaSync="#v1"><p dur="5s">1</p></div>
<div id="two" timeContainer="par" mediaSync="#v2"><p dur="5s">2</p></div>
<div id="also-one" timeContainer="par" mediaSync="#v1"><p dur="5s">1b</p></div>`

func TestExclusiveMedia_PausesOtherSources(t *testing.T) {
	doc, err := dom.ParseString(twoPlayersDoc)
	require.NoError(t, err)

	media := map[string]*testutil.FakeMedia{
		"v1": testutil.NewFakeMedia(),
		"v2": testutil.NewFakeMedia(),
	}
	vclock := clock.NewVirtual()
	reg, err := timing.Build(doc,
		timing.WithTicker(vclock),
		timing.WithNow(vclock.Now),
		timing.WithMediaResolver(func(el *html.Node) clock.MediaSource {
			return media[dom.ID(el)]
		}))
	require.NoError(t, err)
	reg.Start()

	cancel := ExclusiveMedia(reg, nil)

	reg.ContainerByID("one").Play()
	assert.False(t, media["v1"].Paused())

	reg.ContainerByID("two").Play()
	assert.False(t, media["v2"].Paused())
	assert.True(t, media["v1"].Paused(), "v1 should yield to v2")

	// Sharing a source is not a conflict.
	reg.ContainerByID("also-one").Play()
	assert.False(t, media["v1"].Paused())
	assert.True(t, media["v2"].Paused())

	cancel()
	reg.ContainerByID("two").Play()
	assert.False(t, media["v1"].Paused())
	assert.False(t, media["v2"].Paused())
}
