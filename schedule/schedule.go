// Package schedule defines the Trip/Stop/Route types consumed from the
// schedule reader, an external collaborator this module does not
// implement, plus the canonical trip-identity string used as the trip
// cache key.
package schedule

import (
	"math"
	"strings"
)

// RouteMode enumerates the mode of transport a Route operates in. The
// concrete integer values are not meaningful beyond equality/ordering; they
// mirror the small enum a GTFS-style route_type column would carry.
type RouteMode int

const (
	ModeUnknown RouteMode = iota
	ModeTram
	ModeSubway
	ModeRail
	ModeBus
	ModeFerry
	ModeCableTram
	ModeAerialLift
	ModeFunicular
	ModeTrolleybus
	ModeMonorail
)

// Direction distinguishes the two directions of travel GTFS-style feeds
// usually encode per trip.
type Direction int

const (
	DirectionOutbound Direction = iota
	DirectionInbound
)

// Route is the consumed record describing a transit line.
type Route struct {
	ID      string
	Type    RouteMode
	AgencyID string
}

// Stop is a single scheduled stop location.
type Stop struct {
	ID             string
	Name           string
	PlatformCode   string
	Lat, Lng       float64
	ParentStation  string // empty if this stop has no parent station
}

// StopTime binds a Stop to a trip's planned arrival/departure offsets,
// expressed in seconds since the trip's notional start.
type StopTime struct {
	Stop             Stop
	ArrivalOffsetSec  int64
	DepartureOffsetSec int64
}

// Trip is an ordered sequence of stops with planned times and a route.
type Trip struct {
	ID        string
	ServiceID string
	BlockID   string
	ShapeID   string
	Headsign  string
	ShortName string
	RouteID   string
	RouteMode RouteMode
	Direction Direction
	StopTimes []StopTime
}

// Stops returns just the Stop portion of each StopTime, in trip order.
func (t Trip) Stops() []Stop {
	out := make([]Stop, len(t.StopTimes))
	for i, st := range t.StopTimes {
		out[i] = st.Stop
	}
	return out
}

// Empty reports whether the trip has no stops at all; such trips are
// excluded from shape production.
func (t Trip) Empty() bool { return len(t.StopTimes) == 0 }

// CanonicalIdentity builds the string whose fingerprint is the trip cache
// key: trip id, service id, block id, shape id, headsign, route id, route
// mode, direction, and the ordered list of (stopId, platformCode) with
// fallback to (lat, lng, name) when stopId is absent.
func (t Trip) CanonicalIdentity() string {
	var b strings.Builder
	writeField := func(s string) {
		b.WriteString(s)
		b.WriteByte('\x1f') // unit separator: a GTFS id cannot contain it
	}
	writeField(t.ID)
	writeField(t.ServiceID)
	writeField(t.BlockID)
	writeField(t.ShapeID)
	writeField(t.Headsign)
	writeField(t.RouteID)
	writeField(itoa(int(t.RouteMode)))
	writeField(itoa(int(t.Direction)))

	for _, st := range t.StopTimes {
		s := st.Stop
		if s.ID != "" {
			writeField(s.ID)
			writeField(s.PlatformCode)
		} else {
			writeField(ftoa(s.Lat))
			writeField(ftoa(s.Lng))
			writeField(s.Name)
		}
	}
	return b.String()
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func ftoa(f float64) string {
	// Fixed-precision (7 decimal places, ~1cm) so that two coordinates equal
	// to within the precision the graph itself quantizes at produce the same
	// identity string; this matters because coordinate fallback identity is
	// only used for stops with no stable external id.
	const scale = 1e7
	scaled := int64(math.Round(f * scale))
	sign := ""
	if scaled < 0 {
		sign = "-"
		scaled = -scaled
	}
	whole := scaled / int64(scale)
	frac := scaled % int64(scale)
	return sign + itoa(int(whole)) + "." + zeroPad(frac, 7)
}

func zeroPad(v int64, width int) string {
	s := itoa(int(v))
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
