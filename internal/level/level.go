// Package level читает описание уровня (YAML) и строит из него начальную реплику мира.
package level

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"keeper-client/internal/world"
	"keeper-client/pkg/protocol"
)

var ErrInvalidLevel = errors.New("invalid level")

type TileDesc struct {
	X        int     `yaml:"x"`
	Y        int     `yaml:"y"`
	Type     string  `yaml:"type"`
	Fullness float64 `yaml:"fullness"`
	Color    int     `yaml:"color"`
}

type FillDesc struct {
	Type     string  `yaml:"type"`
	Fullness float64 `yaml:"fullness"`
}

type SeatDesc struct {
	Color     int     `yaml:"color"`
	Faction   string  `yaml:"faction"`
	Team      int     `yaml:"team"`
	StartingX int     `yaml:"starting_x"`
	StartingY int     `yaml:"starting_y"`
	Gold      int     `yaml:"gold"`
	Mana      float64 `yaml:"mana"`
}

// Descriptor - файл уровня как он лежит на диске.
type Descriptor struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// Fill - если задан, уровень сначала заполняется тайлами этого типа.
	Fill  *FillDesc  `yaml:"fill"`
	Tiles []TileDesc `yaml:"tiles"`
	Seats []SeatDesc `yaml:"seats"`
}

// Loader реализует client.LevelLoader.
type Loader struct{}

func (Loader) Load(path string) (*world.Replica, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return d.Build()
}

func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Descriptor) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < d.Width && y < d.Height
}

func (d *Descriptor) Validate() error {
	var errs []error
	if d.Width <= 0 || d.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d", d.Width, d.Height))
	}
	if d.Fill != nil {
		if _, err := protocol.ParseTileType(d.Fill.Type); err != nil {
			errs = append(errs, fmt.Errorf("fill: %w", err))
		}
	}

	seenTiles := make(map[world.TileKey]bool, len(d.Tiles))
	for _, t := range d.Tiles {
		key := world.TileKey{X: t.X, Y: t.Y}
		if !d.inBounds(t.X, t.Y) {
			errs = append(errs, fmt.Errorf("tile %s outside %dx%d", key, d.Width, d.Height))
		}
		if seenTiles[key] {
			errs = append(errs, fmt.Errorf("tile %s listed twice", key))
		}
		seenTiles[key] = true
		if _, err := protocol.ParseTileType(t.Type); err != nil {
			errs = append(errs, fmt.Errorf("tile %s: %w", key, err))
		}
	}

	seenSeats := make(map[int]bool, len(d.Seats))
	for _, s := range d.Seats {
		if seenSeats[s.Color] {
			errs = append(errs, fmt.Errorf("seat color %d listed twice", s.Color))
		}
		seenSeats[s.Color] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, errors.Join(errs...))
	}
	return nil
}

// Build создаёт реплику: заливка, явные тайлы поверх неё, пустые места.
func (d *Descriptor) Build() (*world.Replica, error) {
	r := world.NewReplica(nil)
	r.LevelName = d.Name
	r.Width = d.Width
	r.Height = d.Height

	tiles := make(map[world.TileKey]protocol.TileData, d.Width*d.Height)
	if d.Fill != nil {
		typ, _ := protocol.ParseTileType(d.Fill.Type)
		for y := 0; y < d.Height; y++ {
			for x := 0; x < d.Width; x++ {
				tiles[world.TileKey{X: x, Y: y}] = protocol.TileData{
					X: int32(x), Y: int32(y), Type: typ, Fullness: d.Fill.Fullness,
				}
			}
		}
	}
	for _, t := range d.Tiles {
		typ, _ := protocol.ParseTileType(t.Type)
		tiles[world.TileKey{X: t.X, Y: t.Y}] = protocol.TileData{
			X: int32(t.X), Y: int32(t.Y), Type: typ, Fullness: t.Fullness, Color: int32(t.Color),
		}
	}
	for _, td := range tiles {
		if _, err := r.AddTile(td); err != nil {
			return nil, err
		}
	}

	for _, s := range d.Seats {
		seat := world.SeatFromData(protocol.SeatData{
			Color:     int32(s.Color),
			Faction:   s.Faction,
			Team:      int32(s.Team),
			StartingX: int32(s.StartingX),
			StartingY: int32(s.StartingY),
			Gold:      int32(s.Gold),
			Mana:      s.Mana,
		})
		if err := r.AddEmptySeat(seat); err != nil {
			return nil, err
		}
	}
	return r, nil
}
