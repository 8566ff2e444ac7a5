package report

import (
	"encoding/json"
	"fmt"
)

// The submission wire shape predates this service and is kept stable for the
// deployed mobile clients: coordinates travel as a JSON string under
// mapCoordinates, with {"latitude":0,"longitude":0} meaning "no location
// supplied", and a missing photo is the literal string "null".

const noPhotoSentinel = "null"

// Payload is the wire-level submission body.
type Payload struct {
	Name           string `json:"name"`
	Telephone      string `json:"telephone"`
	Comments       string `json:"comments"`
	MapCoordinates string `json:"mapCoordinates"`
	Photo          string `json:"photo"`
}

// EncodePayload renders submission fields into the wire shape.
func EncodePayload(params CreateParams) (Payload, error) {
	coord := Coordinate{}
	if params.Coordinates != nil {
		coord = *params.Coordinates
	}
	raw, err := json.Marshal(coord)
	if err != nil {
		return Payload{}, fmt.Errorf("report: encode coordinates: %w", err)
	}

	photo := noPhotoSentinel
	if params.PhotoRef != nil && *params.PhotoRef != "" {
		photo = *params.PhotoRef
	}

	return Payload{
		Name:           params.Name,
		Telephone:      params.Telephone,
		Comments:       params.Comments,
		MapCoordinates: string(raw),
		Photo:          photo,
	}, nil
}

// DecodePayload parses the wire shape back into create parameters, mapping
// the sentinels to absent values.
func DecodePayload(p Payload) (CreateParams, error) {
	params := CreateParams{
		Name:      p.Name,
		Telephone: p.Telephone,
		Comments:  p.Comments,
	}

	if p.MapCoordinates != "" {
		var coord Coordinate
		if err := json.Unmarshal([]byte(p.MapCoordinates), &coord); err != nil {
			return CreateParams{}, fmt.Errorf("report: decode coordinates: %w", err)
		}
		if coord.Latitude != 0 || coord.Longitude != 0 {
			params.Coordinates = &coord
		}
	}

	if p.Photo != "" && p.Photo != noPhotoSentinel {
		photo := p.Photo
		params.PhotoRef = &photo
	}

	return params, nil
}
