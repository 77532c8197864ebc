package main

import (
	"encoding/json"
	"io"
)

type shapeOutput struct {
	TripID  string       `json:"tripId"`
	Dropped bool         `json:"dropped"`
	Cost    float64      `json:"cost,omitempty"`
	Points  [][2]float64 `json:"points,omitempty"` // [lon, lat] pairs
}

// writeShapes emits one JSON object per line (newline-delimited, so a huge
// schedule can be streamed by downstream tooling without buffering the
// whole output).
func writeShapes(w io.Writer, shapes []shape) error {
	enc := json.NewEncoder(w)
	for _, s := range shapes {
		out := shapeOutput{TripID: s.TripID, Dropped: s.Dropped, Cost: s.Cost}
		if !s.Dropped {
			out.Points = make([][2]float64, len(s.Points))
			for i, p := range s.Points {
				out.Points[i] = [2]float64{p.Lon, p.Lat}
			}
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
