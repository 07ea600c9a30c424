// Package systems provides the stores, forces and integrators behind the particle fields.
package systems

import "math"

// Link is a connection between two particles closer than the link distance.
type Link struct {
	I, J int
	Dist float32
}

// SpatialGrid buckets particle indices into square cells for neighbor lookups.
// Positions outside the surface are clamped into the edge cells.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	cells    [][]int32
}

// NewSpatialGrid creates a spatial grid covering the given surface size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all indices from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds a particle index at the given position.
func (g *SpatialGrid) Insert(i int, x, y float32) {
	col := g.clampCol(g.col(x))
	row := g.clampRow(g.row(y))
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], int32(i))
}

// Rebuild clears the grid and inserts every view.
func (g *SpatialGrid) Rebuild(views []ParticleView) {
	g.Clear()
	for i := range views {
		g.Insert(i, views[i].X, views[i].Y)
	}
}

// LinksInto appends every ordered pair (i, j), i != j, closer than maxDist.
// Each unordered pair appears twice, once from each end.
func (g *SpatialGrid) LinksInto(dst []Link, views []ParticleView, maxDist float32) []Link {
	maxDistSq := maxDist * maxDist

	for i := range views {
		x, y := views[i].X, views[i].Y

		minCol := g.clampCol(g.col(x - maxDist))
		maxCol := g.clampCol(g.col(x + maxDist))
		minRow := g.clampRow(g.row(y - maxDist))
		maxRow := g.clampRow(g.row(y + maxDist))

		for row := minRow; row <= maxRow; row++ {
			for col := minCol; col <= maxCol; col++ {
				for _, j32 := range g.cells[row*g.cols+col] {
					j := int(j32)
					if j == i {
						continue
					}
					dx := views[j].X - x
					dy := views[j].Y - y
					distSq := dx*dx + dy*dy
					if distSq < maxDistSq {
						dst = append(dst, Link{I: i, J: j, Dist: float32(math.Sqrt(float64(distSq)))})
					}
				}
			}
		}
	}

	return dst
}

func (g *SpatialGrid) col(x float32) int {
	return int(math.Floor(float64(x / g.cellSize)))
}

func (g *SpatialGrid) row(y float32) int {
	return int(math.Floor(float64(y / g.cellSize)))
}

func (g *SpatialGrid) clampCol(c int) int {
	return max(0, min(c, g.cols-1))
}

func (g *SpatialGrid) clampRow(r int) int {
	return max(0, min(r, g.rows-1))
}
