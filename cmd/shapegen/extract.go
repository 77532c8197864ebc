package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/transitshape/shapegen/osmfeed"
	"github.com/transitshape/shapegen/schedule"
)

// extractFile is the JSON shape of the map-extract input this binary
// accepts. The byte-level OSM/PBF parser itself is an external collaborator
// the core does not implement; this is a convenience format for exercising
// the builder without one.
type extractFile struct {
	Nodes []struct {
		ID   uint64            `json:"id"`
		Lon  float64           `json:"lon"`
		Lat  float64           `json:"lat"`
		Tags map[string]string `json:"tags"`
	} `json:"nodes"`
	Ways []struct {
		ID       uint64            `json:"id"`
		NodeRefs []uint64          `json:"nodeRefs"`
		Tags     map[string]string `json:"tags"`
	} `json:"ways"`
	Relations []struct {
		ID      uint64            `json:"id"`
		Members []struct {
			Type string `json:"type"` // "node" | "way" | "relation"
			ID   uint64 `json:"id"`
			Role string `json:"role"`
		} `json:"members"`
		Tags map[string]string `json:"tags"`
	} `json:"relations"`
}

func loadExtract(path string) (*extractFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ef extractFile
	if err := json.Unmarshal(data, &ef); err != nil {
		return nil, fmt.Errorf("parsing extract %s: %w", path, err)
	}
	return &ef, nil
}

// Nodes, Ways, Rels adapt the parsed extract into the push-style streams
// tgraph.Build consumes.
func (ef *extractFile) Nodes() osmfeed.NodeSeq {
	return func(yield func(osmfeed.Node) bool) {
		for _, n := range ef.Nodes {
			if !yield(osmfeed.Node{ID: n.ID, Lon: n.Lon, Lat: n.Lat, Tags: n.Tags}) {
				return
			}
		}
	}
}

func (ef *extractFile) Ways() osmfeed.WaySeq {
	return func(yield func(osmfeed.Way) bool) {
		for _, w := range ef.Ways {
			if !yield(osmfeed.Way{ID: w.ID, NodeRefs: w.NodeRefs, Tags: w.Tags}) {
				return
			}
		}
	}
}

func memberType(s string) osmfeed.MemberType {
	switch s {
	case "way":
		return osmfeed.MemberWay
	case "relation":
		return osmfeed.MemberRelation
	default:
		return osmfeed.MemberNode
	}
}

func (ef *extractFile) Rels() osmfeed.RelSeq {
	return func(yield func(osmfeed.Rel) bool) {
		for _, r := range ef.Relations {
			members := make([]osmfeed.Member, len(r.Members))
			for i, m := range r.Members {
				members[i] = osmfeed.Member{Type: memberType(m.Type), ID: m.ID, Role: m.Role}
			}
			if !yield(osmfeed.Rel{ID: r.ID, Members: members, Tags: r.Tags}) {
				return
			}
		}
	}
}

// scheduleFile is the JSON shape of the schedule input this binary accepts.
// The schedule reader, like the map extract parser, is an external
// collaborator this binary stubs out with a plain JSON format.
type scheduleFile struct {
	Trips []struct {
		ID        string `json:"id"`
		ServiceID string `json:"serviceId"`
		BlockID   string `json:"blockId"`
		ShapeID   string `json:"shapeId"`
		Headsign  string `json:"headsign"`
		ShortName string `json:"shortName"`
		RouteID   string `json:"routeId"`
		RouteMode int    `json:"routeMode"`
		Direction int    `json:"direction"`
		StopTimes []struct {
			Stop struct {
				ID            string  `json:"id"`
				Name          string  `json:"name"`
				PlatformCode  string  `json:"platformCode"`
				Lat           float64 `json:"lat"`
				Lng           float64 `json:"lng"`
				ParentStation string  `json:"parentStation"`
			} `json:"stop"`
			ArrivalOffsetSec   int64 `json:"arrivalOffsetSec"`
			DepartureOffsetSec int64 `json:"departureOffsetSec"`
		} `json:"stopTimes"`
	} `json:"trips"`
}

func loadSchedule(path string) ([]schedule.Trip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf scheduleFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing schedule %s: %w", path, err)
	}

	trips := make([]schedule.Trip, len(sf.Trips))
	for i, t := range sf.Trips {
		sts := make([]schedule.StopTime, len(t.StopTimes))
		for j, st := range t.StopTimes {
			sts[j] = schedule.StopTime{
				Stop: schedule.Stop{
					ID:            st.Stop.ID,
					Name:          st.Stop.Name,
					PlatformCode:  st.Stop.PlatformCode,
					Lat:           st.Stop.Lat,
					Lng:           st.Stop.Lng,
					ParentStation: st.Stop.ParentStation,
				},
				ArrivalOffsetSec:   st.ArrivalOffsetSec,
				DepartureOffsetSec: st.DepartureOffsetSec,
			}
		}
		trips[i] = schedule.Trip{
			ID:        t.ID,
			ServiceID: t.ServiceID,
			BlockID:   t.BlockID,
			ShapeID:   t.ShapeID,
			Headsign:  t.Headsign,
			ShortName: t.ShortName,
			RouteID:   t.RouteID,
			RouteMode: schedule.RouteMode(t.RouteMode),
			Direction: schedule.Direction(t.Direction),
			StopTimes: sts,
		}
	}
	return trips, nil
}
