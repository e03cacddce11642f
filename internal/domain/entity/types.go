package entity

// TileType represents the type of a tile
type TileType int

const (
	TileEmpty TileType = iota
	TileWall
)

// Tile represents a single cell of a map's collision grid
type Tile struct {
	Type  TileType
	Solid bool
}

// Grid is a map's collision grid. Rows are stored top-down as authored;
// queries use the map's local frame where row 0 is the bottom row.
type Grid struct {
	Width    int
	Height   int
	TileSize int
	Tiles    [][]Tile
}

// NewGrid creates an empty grid of the given dimensions
func NewGrid(width, height, tileSize int) *Grid {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
	}
	return &Grid{Width: width, Height: height, TileSize: tileSize, Tiles: tiles}
}

// GetTile returns the tile at local tile coordinates (y-up).
// Cells outside the grid are empty.
func (g *Grid) GetTile(tx, ty int) Tile {
	if tx < 0 || tx >= g.Width || ty < 0 || ty >= g.Height {
		return Tile{Type: TileEmpty}
	}
	return g.Tiles[g.Height-1-ty][tx]
}

// IsSolid checks if the tile at local tile coordinates is solid
func (g *Grid) IsSolid(tx, ty int) bool {
	return g.GetTile(tx, ty).Solid
}

// CellSize returns the tile edge length in pixels
func (g *Grid) CellSize() float64 {
	return float64(g.TileSize)
}
