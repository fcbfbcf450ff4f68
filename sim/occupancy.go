package sim

// occupancy maps a grid cell to the index of the living agent on it.
// It is rebuilt at the start of every step and never escapes Step.
type occupancy struct {
	size  int
	cells []int
}

const emptyCell = -1

func (o *occupancy) rebuild(size int, agents []*Agent) {
	n := size * size
	if cap(o.cells) < n {
		o.cells = make([]int, n)
	}
	o.cells = o.cells[:n]
	o.size = size
	for i := range o.cells {
		o.cells[i] = emptyCell
	}
	for i, ag := range agents {
		if ag.State.Alive() {
			o.cells[ag.Y*size+ag.X] = i
		}
	}
}

func (o *occupancy) at(x, y int) int { return o.cells[y*o.size+x] }

func (o *occupancy) occupied(x, y int) bool { return o.at(x, y) != emptyCell }

func (o *occupancy) move(idx, fromX, fromY, toX, toY int) {
	o.cells[fromY*o.size+fromX] = emptyCell
	o.cells[toY*o.size+toX] = idx
}

// crowded reports whether any neighbour of (x, y) other than the skip cell
// is occupied.
func (o *occupancy) crowded(x, y, skipX, skipY int) bool {
	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		if nx < 0 || ny < 0 || nx >= o.size || ny >= o.size {
			continue
		}
		if nx == skipX && ny == skipY {
			continue
		}
		if o.occupied(nx, ny) {
			return true
		}
	}
	return false
}
