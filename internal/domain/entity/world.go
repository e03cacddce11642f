package entity

import (
	"errors"
	"fmt"
)

// MaxPickups is the largest number of collectible ids a world can declare.
const MaxPickups = 256

// ErrInvalidWorld is returned when world data is inconsistent.
var ErrInvalidWorld = errors.New("invalid world")

// MapData is a segment together with the entity instances authored in it.
type MapData struct {
	Segment  *MapSegment
	Entities []EntityDescriptor
}

// WorldMap is the ordered collection of every map in the game.
type WorldMap struct {
	TileSize     int
	TotalPickups int
	Maps         []*MapData

	index map[MapID]int
}

// NewWorldMap validates and indexes a set of maps.
func NewWorldMap(tileSize, totalPickups int, maps []*MapData) (*WorldMap, error) {
	if totalPickups < 0 || totalPickups > MaxPickups {
		return nil, fmt.Errorf("%w: total pickups %d out of range [0, %d]", ErrInvalidWorld, totalPickups, MaxPickups)
	}

	index := make(map[MapID]int, len(maps))
	for i, m := range maps {
		if m == nil || m.Segment == nil {
			return nil, fmt.Errorf("%w: map %d has no segment", ErrInvalidWorld, i)
		}
		if _, dup := index[m.Segment.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate map id %q", ErrInvalidWorld, m.Segment.ID)
		}
		if m.Segment.Size[0] <= 0 || m.Segment.Size[1] <= 0 {
			return nil, fmt.Errorf("%w: map %q has empty size", ErrInvalidWorld, m.Segment.ID)
		}
		index[m.Segment.ID] = i
	}

	for _, m := range maps {
		for _, n := range m.Segment.Neighbors {
			if _, ok := index[n]; !ok {
				return nil, fmt.Errorf("%w: map %q lists unknown neighbor %q", ErrInvalidWorld, m.Segment.ID, n)
			}
		}
	}

	return &WorldMap{
		TileSize:     tileSize,
		TotalPickups: totalPickups,
		Maps:         maps,
		index:        index,
	}, nil
}

// Map looks up a map by id.
func (w *WorldMap) Map(id MapID) (*MapData, bool) {
	i, ok := w.index[id]
	if !ok {
		return nil, false
	}
	return w.Maps[i], true
}
