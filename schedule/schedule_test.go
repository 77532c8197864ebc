package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalIdentityStableAndDistinct(t *testing.T) {
	base := Trip{
		ID: "t1", ServiceID: "s1", RouteID: "r1", RouteMode: ModeBus,
		StopTimes: []StopTime{
			{Stop: Stop{ID: "stop1", PlatformCode: "A"}},
			{Stop: Stop{ID: "stop2", PlatformCode: "B"}},
		},
	}
	other := base
	other.StopTimes = append([]StopTime{}, base.StopTimes...)

	assert.Equal(t, base.CanonicalIdentity(), other.CanonicalIdentity())

	changed := base
	changed.StopTimes = append([]StopTime{}, base.StopTimes...)
	changed.StopTimes[1].Stop.PlatformCode = "C"
	assert.NotEqual(t, base.CanonicalIdentity(), changed.CanonicalIdentity())
}

func TestCanonicalIdentityFallsBackToCoords(t *testing.T) {
	trip := Trip{
		ID: "t1",
		StopTimes: []StopTime{
			{Stop: Stop{Lat: 50.1, Lng: 8.2, Name: "Hauptbahnhof"}},
		},
	}
	id := trip.CanonicalIdentity()
	assert.Contains(t, id, "50.1000000")
	assert.Contains(t, id, "8.2000000")
	assert.Contains(t, id, "Hauptbahnhof")
}

func TestEmptyTrip(t *testing.T) {
	var trip Trip
	assert.True(t, trip.Empty())
	trip.StopTimes = []StopTime{{}}
	assert.False(t, trip.Empty())
}
