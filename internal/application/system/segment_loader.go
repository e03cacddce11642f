package system

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// ErrInvalidMap is returned when a map file cannot be turned into a segment.
var ErrInvalidMap = errors.New("invalid map")

var defaultBackground = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}

type tileStyle struct {
	tile     entity.Tile
	color    color.RGBA
	hasColor bool
}

// LoadSegment converts a MapConfig into a segment plus its entity
// descriptors. Each layer is composited into one image.
func LoadSegment(cfg *config.MapConfig, tileSize int, log *zap.Logger) (*entity.MapData, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: %s: tile size %d", ErrInvalidMap, cfg.ID, tileSize)
	}
	if len(cfg.Layers) == 0 {
		return nil, fmt.Errorf("%w: %s: no layers", ErrInvalidMap, cfg.ID)
	}
	if cfg.EntityLayer < entity.EntityLayerBelowAll || cfg.EntityLayer >= len(cfg.Layers) {
		return nil, fmt.Errorf("%w: %s: entity layer %d out of range", ErrInvalidMap, cfg.ID, cfg.EntityLayer)
	}

	tileHeight := len(cfg.Layers[0].Rows)
	tileWidth := 0
	if tileHeight > 0 {
		tileWidth = len([]rune(cfg.Layers[0].Rows[0]))
	}
	if tileWidth == 0 {
		return nil, fmt.Errorf("%w: %s: empty layer", ErrInvalidMap, cfg.ID)
	}

	styles, err := tileStyles(cfg)
	if err != nil {
		return nil, err
	}

	background, err := config.ParseColor(cfg.Background, defaultBackground)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidMap, cfg.ID, err)
	}

	grid := entity.NewGrid(tileWidth, tileHeight, tileSize)
	layers := make([]entity.Layer, 0, len(cfg.Layers))
	for _, lc := range cfg.Layers {
		if len(lc.Rows) != tileHeight {
			return nil, fmt.Errorf("%w: %s: layer %s has %d rows, want %d", ErrInvalidMap, cfg.ID, lc.Name, len(lc.Rows), tileHeight)
		}

		img := image.NewRGBA(image.Rect(0, 0, tileWidth*tileSize, tileHeight*tileSize))
		for y, row := range lc.Rows {
			cells := []rune(row)
			if len(cells) != tileWidth {
				return nil, fmt.Errorf("%w: %s: layer %s row %d has %d cells, want %d", ErrInvalidMap, cfg.ID, lc.Name, y, len(cells), tileWidth)
			}
			for x, ch := range cells {
				style, ok := styles[ch]
				if !ok {
					continue
				}
				if style.hasColor {
					r := image.Rect(x*tileSize, y*tileSize, (x+1)*tileSize, (y+1)*tileSize)
					draw.Draw(img, r, &image.Uniform{C: style.color}, image.Point{}, draw.Src)
				}
				if lc.Collision && style.tile.Solid {
					grid.Tiles[y][x] = style.tile
				}
			}
		}
		layers = append(layers, entity.Layer{Name: lc.Name, Image: img})
	}

	neighbors := make([]entity.MapID, len(cfg.Neighbors))
	for i, n := range cfg.Neighbors {
		neighbors[i] = entity.MapID(n)
	}

	segment := &entity.MapSegment{
		ID:          entity.MapID(cfg.ID),
		Origin:      mgl64.Vec2{cfg.Origin.X, cfg.Origin.Y},
		Size:        mgl64.Vec2{float64(tileWidth * tileSize), float64(tileHeight * tileSize)},
		Layers:      layers,
		Grid:        grid,
		Background:  background,
		EntityLayer: cfg.EntityLayer,
		Neighbors:   neighbors,
	}

	return &entity.MapData{
		Segment:  segment,
		Entities: loadDescriptors(cfg, log),
	}, nil
}

func tileStyles(cfg *config.MapConfig) (map[rune]tileStyle, error) {
	styles := make(map[rune]tileStyle, len(cfg.TileMapping))
	for key, m := range cfg.TileMapping {
		runes := []rune(key)
		if len(runes) != 1 {
			return nil, fmt.Errorf("%w: %s: tile key %q must be one character", ErrInvalidMap, cfg.ID, key)
		}

		var tileType entity.TileType
		switch m.Type {
		case "wall":
			tileType = entity.TileWall
		default:
			tileType = entity.TileEmpty
		}

		style := tileStyle{tile: entity.Tile{Type: tileType, Solid: m.Solid}}
		if m.Color != "" {
			c, err := config.ParseColor(m.Color, color.RGBA{})
			if err != nil {
				return nil, fmt.Errorf("%w: %s: tile %q: %w", ErrInvalidMap, cfg.ID, key, err)
			}
			style.color = c
			style.hasColor = true
		}
		styles[runes[0]] = style
	}
	return styles, nil
}

// loadDescriptors converts authored entities. Fields whose YAML type has no
// importable kind are dropped.
func loadDescriptors(cfg *config.MapConfig, log *zap.Logger) []entity.EntityDescriptor {
	out := make([]entity.EntityDescriptor, 0, len(cfg.Entities))
	for _, ec := range cfg.Entities {
		d := entity.EntityDescriptor{
			Type:     ec.Type,
			Position: mgl64.Vec2{ec.X, ec.Y},
			Fields:   make([]entity.FieldValue, 0, len(ec.Fields)),
		}
		for _, f := range ec.Fields {
			var (
				v   entity.FieldValue
				err error
			)
			switch f.Tag {
			case "!!int":
				var n int32
				n, err = f.Int()
				v = entity.IntField(f.Name, n)
			case "!!bool":
				var b bool
				b, err = f.Bool()
				v = entity.BoolField(f.Name, b)
			default:
				err = fmt.Errorf("unsupported field type %s", f.Tag)
			}
			if err != nil {
				log.Debug("dropping entity field",
					zap.String("map", cfg.ID),
					zap.String("type", ec.Type),
					zap.String("field", f.Name),
					zap.Error(err))
				continue
			}
			d.Fields = append(d.Fields, v)
		}
		out = append(out, d)
	}
	return out
}

// LoadWorld builds every map of a world and validates the ids that index
// the player's bitsets.
func LoadWorld(cfg *config.WorldConfig, log *zap.Logger) (*entity.WorldMap, error) {
	maps := make([]*entity.MapData, 0, len(cfg.Maps))
	for _, mc := range cfg.Maps {
		data, err := LoadSegment(mc, cfg.TileSize, log)
		if err != nil {
			return nil, err
		}
		if err := checkPickupIDs(data, cfg.TotalPickups); err != nil {
			return nil, err
		}
		if err := checkCheckpointIDs(data); err != nil {
			return nil, err
		}
		maps = append(maps, data)
	}

	world, err := entity.NewWorldMap(cfg.TileSize, cfg.TotalPickups, maps)
	if err != nil {
		return nil, err
	}
	if cfg.Start.Map != "" {
		if _, ok := world.Map(entity.MapID(cfg.Start.Map)); !ok {
			return nil, fmt.Errorf("%w: start map %q not found", entity.ErrInvalidWorld, cfg.Start.Map)
		}
	}
	return world, nil
}

func checkPickupIDs(data *entity.MapData, totalPickups int) error {
	for _, d := range data.Entities {
		var (
			name  string
			limit int
		)
		switch d.Type {
		case TypeCollectible:
			name, limit = "id", totalPickups
		case TypeUpgrade:
			name, limit = "upgradeID", int(ecs.AbilityCount)
		default:
			continue
		}
		for _, f := range d.Fields {
			if f.Name == name && f.Kind == entity.KindInt32 && (f.Int < 0 || int(f.Int) >= limit) {
				return fmt.Errorf("%w: %s: %s %s=%d out of range [0, %d)", ErrInvalidMap, data.Segment.ID, d.Type, name, f.Int, limit)
			}
		}
	}
	return nil
}

// checkCheckpointIDs rejects a map where two checkpoints share an id.
func checkCheckpointIDs(data *entity.MapData) error {
	seen := make(map[int32]bool)
	for _, d := range data.Entities {
		if d.Type != TypeCheckpoint {
			continue
		}
		var id int32
		for _, f := range d.Fields {
			if f.Name == "id" && f.Kind == entity.KindInt32 {
				id = f.Int
			}
		}
		if seen[id] {
			return fmt.Errorf("%w: %s: duplicate checkpoint id %d", ErrInvalidMap, data.Segment.ID, id)
		}
		seen[id] = true
	}
	return nil
}
