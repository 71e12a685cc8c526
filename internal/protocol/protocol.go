// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

// Package protocol defines the JSON telemetry frames a game host streams to
// the engine and the enforcement frames the engine sends back.
package protocol

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tomtom215/autoban/internal/detection"
)

// Frame types.
const (
	TypeJoin          = "join"
	TypeLeave         = "leave"
	TypeTeleport      = "teleport"
	TypeMove          = "move"
	TypeResourceBreak = "resource_break"
	TypeStatus        = "status"
	TypeEnforce       = "enforce"
)

// ErrMalformedFrame is returned for frames that fail decoding or validation.
var ErrMalformedFrame = errors.New("malformed frame")

//go:embed frame.schema.json
var frameSchema []byte

const frameSchemaURL = "frame.schema.json"

// Location is the wire form of a world position.
type Location struct {
	World string  `json:"world"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

// Frame is a host-to-engine telemetry frame. Only the fields relevant to
// Type are populated.
type Frame struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`

	// join
	Name string `json:"name,omitempty"`

	// teleport
	Cause string `json:"cause,omitempty"`

	// teleport, move
	To *Location `json:"to,omitempty"`

	// move
	From        *Location  `json:"from,omitempty"`
	Velocity    [3]float64 `json:"velocity"`
	OnGround    bool       `json:"on_ground,omitempty"`
	Gliding     bool       `json:"gliding,omitempty"`
	InLiquid    bool       `json:"in_liquid,omitempty"`
	LiquidBelow bool       `json:"liquid_below,omitempty"`
	Weather     bool       `json:"weather,omitempty"`
	Sprinting   bool       `json:"sprinting,omitempty"`
	SpeedLevel  int        `json:"speed_level,omitempty"`
	HeldItems   []string   `json:"held_items,omitempty"`
	Pitch       float64    `json:"pitch,omitempty"`

	// resource_break
	Resource string    `json:"resource,omitempty"`
	At       *Location `json:"at,omitempty"`

	// resource_break, status
	GameMode string `json:"game_mode,omitempty"`

	// status
	Flying    bool     `json:"flying,omitempty"`
	InVehicle bool     `json:"in_vehicle,omitempty"`
	Bypass    bool     `json:"bypass,omitempty"`
	Effects   []string `json:"effects,omitempty"`
}

// EnforceFrame is an engine-to-host enforcement command.
type EnforceFrame struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// Decoder validates and decodes telemetry frames. It is safe for
// concurrent use.
type Decoder struct {
	schema *jsonschema.Schema
}

// NewDecoder compiles the embedded frame schema.
func NewDecoder() (*Decoder, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(frameSchemaURL, bytes.NewReader(frameSchema)); err != nil {
		return nil, fmt.Errorf("load frame schema: %w", err)
	}
	schema, err := c.Compile(frameSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile frame schema: %w", err)
	}
	return &Decoder{schema: schema}, nil
}

// Decode validates raw against the frame schema and decodes it.
func (d *Decoder) Decode(raw []byte) (Frame, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if err := d.schema.Validate(doc); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return f, nil
}

// Event converts a telemetry frame into a detection event. Status frames
// are not events and return ok=false.
func (f Frame) Event() (ev detection.Event, ok bool) {
	id := detection.EntityID(f.Entity)
	switch f.Type {
	case TypeJoin:
		return detection.JoinEvent{Entity: id, Name: f.Name}, true
	case TypeLeave:
		return detection.LeaveEvent{Entity: id}, true
	case TypeTeleport:
		return detection.TeleportEvent{Entity: id, Cause: f.Cause, To: f.To.toDetection()}, true
	case TypeMove:
		return detection.MoveEvent{
			Entity:        id,
			From:          f.From.toDetection(),
			To:            f.To.toDetection(),
			Velocity:      mgl64.Vec3(f.Velocity),
			OnGround:      f.OnGround,
			Gliding:       f.Gliding,
			InLiquid:      f.InLiquid,
			LiquidBelow:   f.LiquidBelow,
			WeatherActive: f.Weather,
			Sprinting:     f.Sprinting,
			SpeedLevel:    f.SpeedLevel,
			HeldItems:     f.HeldItems,
			Pitch:         f.Pitch,
		}, true
	case TypeResourceBreak:
		return detection.ResourceBreakEvent{
			Entity:   id,
			Resource: f.Resource,
			At:       f.At.toDetection(),
			GameMode: f.GameMode,
		}, true
	default:
		return nil, false
	}
}

func (l *Location) toDetection() *detection.Location {
	if l == nil {
		return nil
	}
	return &detection.Location{World: l.World, Pos: mgl64.Vec3{l.X, l.Y, l.Z}}
}

// NewEnforceFrame builds a ban command for a host.
func NewEnforceFrame(id string, entity detection.EntityID, reason string) EnforceFrame {
	return EnforceFrame{
		Type:   TypeEnforce,
		ID:     id,
		Entity: string(entity),
		Action: "ban",
		Reason: reason,
	}
}
