package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_WingsOfLibertyEra(t *testing.T) {
	// Builds before the HotS overhaul: player-id driven, no working slots,
	// no tracker.
	feats := Resolve(17326)

	assert.False(t, feats.UserIDDriven)
	assert.False(t, feats.WorkingSlots)
	assert.False(t, feats.TrackerPresent)
	assert.False(t, feats.TrackerPlayerID)
}

func TestResolve_HotSOverhaul(t *testing.T) {
	feats := Resolve(24764)

	assert.True(t, feats.UserIDDriven)
	assert.True(t, feats.WorkingSlots)
	assert.False(t, feats.TrackerPresent, "tracker arrives later than working slots")
	assert.False(t, feats.TrackerPlayerID)
}

func TestResolve_TrackerEra(t *testing.T) {
	feats := Resolve(25604)

	assert.True(t, feats.UserIDDriven)
	assert.True(t, feats.WorkingSlots)
	assert.True(t, feats.TrackerPresent)
	assert.True(t, feats.TrackerPlayerID)
}

func TestResolve_ModernBuild(t *testing.T) {
	feats := Resolve(80949)

	assert.Equal(t, Features{
		UserIDDriven:    true,
		WorkingSlots:    true,
		TrackerPresent:  true,
		TrackerPlayerID: true,
	}, feats)
}

func TestResolve_BoundaryBelow(t *testing.T) {
	feats := Resolve(24763)

	assert.False(t, feats.UserIDDriven)
	assert.False(t, feats.WorkingSlots)
}

func TestParseThresholds_Overrides(t *testing.T) {
	th, err := ParseThresholds([]byte("user_id_driven: 30000\nhigh_build: 85000\n"))
	require.NoError(t, err)

	assert.Equal(t, 30000, th.UserIDDriven)
	assert.Equal(t, 85000, th.HighBuild)
	// Untouched fields keep defaults.
	assert.Equal(t, DefaultWorkingSlotsBuild, th.WorkingSlots)
	assert.Equal(t, DefaultTrackerPresentBuild, th.TrackerPresent)
}

func TestParseThresholds_Empty(t *testing.T) {
	th, err := ParseThresholds(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultThresholds(), th)
}

func TestParseThresholds_Invalid(t *testing.T) {
	_, err := ParseThresholds([]byte("user_id_driven: [not a number"))
	assert.Error(t, err)
}

func TestSelectBuild_ExactMatch(t *testing.T) {
	th := DefaultThresholds()

	selected, fallback, err := th.SelectBuild(26490, []int{24944, 26490, 27950}, true)
	require.NoError(t, err)
	assert.Equal(t, 26490, selected)
	assert.False(t, fallback)
}

func TestSelectBuild_StrictModeFatal(t *testing.T) {
	th := DefaultThresholds()

	_, _, err := th.SelectBuild(26500, []int{24944, 26490, 27950}, true)
	require.Error(t, err)

	var unsupported *UnsupportedBuildError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 26500, unsupported.Build)
}

func TestSelectBuild_Nearest(t *testing.T) {
	th := DefaultThresholds()

	selected, fallback, err := th.SelectBuild(26500, []int{24944, 26490, 27950}, false)
	require.NoError(t, err)
	assert.Equal(t, 26490, selected)
	assert.True(t, fallback)
}

func TestSelectBuild_TiePrefersOlder(t *testing.T) {
	th := DefaultThresholds()

	// 26000 is equidistant from 25000 and 27000.
	selected, _, err := th.SelectBuild(26000, []int{25000, 27000}, false)
	require.NoError(t, err)
	assert.Equal(t, 25000, selected)
}

func TestSelectBuild_HighBuildPrefersNewer(t *testing.T) {
	th := DefaultThresholds()

	// Past HighBuild the selection steps one build newer when it can:
	// 80949 is nearest to 80940, but 81009 is picked instead.
	selected, fallback, err := th.SelectBuild(80940, []int{80871, 80949, 81009}, false)
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, 81009, selected)
}

func TestSelectBuild_HighBuildNoNewerAvailable(t *testing.T) {
	th := DefaultThresholds()

	selected, _, err := th.SelectBuild(90000, []int{80188, 80949}, false)
	require.NoError(t, err)
	assert.Equal(t, 80949, selected, "nearest stays when nothing newer is known")
}

func TestSelectBuild_NoKnownBuilds(t *testing.T) {
	th := DefaultThresholds()

	_, _, err := th.SelectBuild(26500, nil, false)
	assert.ErrorIs(t, err, ErrNoKnownBuilds)
}
