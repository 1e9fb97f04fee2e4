package main

import (
	"fmt"
	"sort"
	"time"

	converter "github.com/mupix-daq/converter_go/pkg"
)

// Display accumulates quick-look planes into a rolling occupancy grid.
// The grid is never reset; the per-tick counters are.
type Display struct {
	grid        []uint64
	planes      int
	hits        int
	planesTick  int
	hitsTick    int
	lastTrigger uint32
	lastPrint   time.Time
}

func NewDisplay() *Display {
	return &Display{
		grid:      make([]uint64, converter.SENSOR_NUM_COLS*converter.SENSOR_NUM_ROWS),
		lastPrint: time.Now(),
	}
}

func (d *Display) Update(plane *converter.Plane) {
	d.planes++
	d.planesTick++
	d.lastTrigger = plane.TriggerID
	for _, pixel := range plane.Pixels {
		d.hits++
		d.hitsTick++
		// Quick-look planes may carry pixels outside the nominal
		// geometry; those count as hits but not as occupancy.
		if int(pixel.Row) >= converter.SENSOR_NUM_COLS || int(pixel.Col) >= converter.SENSOR_NUM_ROWS {
			continue
		}
		d.grid[int(pixel.Row)*converter.SENSOR_NUM_ROWS+int(pixel.Col)]++
	}
}

func (d *Display) Print() {
	elapsed := time.Since(d.lastPrint).Seconds()
	if elapsed <= 0 {
		elapsed = 1
	}
	planeRate := float64(d.planesTick) / elapsed
	hitRate := float64(d.hitsTick) / elapsed
	fmt.Printf("planes: %d (%.1f/s), hits: %d (%.1f/s), last trigger: %d\n",
		d.planes, planeRate, d.hits, hitRate, d.lastTrigger)
	for _, cell := range d.hottest(5) {
		fmt.Printf("  row %2d col %2d: %d\n", cell.row, cell.col, cell.count)
	}
	d.planesTick = 0
	d.hitsTick = 0
	d.lastPrint = time.Now()
}

type hotCell struct {
	row   int
	col   int
	count uint64
}

func (d *Display) hottest(n int) []hotCell {
	cells := make([]hotCell, 0, n)
	for index, count := range d.grid {
		if count == 0 {
			continue
		}
		cells = append(cells, hotCell{
			row:   index / converter.SENSOR_NUM_ROWS,
			col:   index % converter.SENSOR_NUM_ROWS,
			count: count,
		})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].count > cells[j].count })
	if len(cells) > n {
		cells = cells[:n]
	}
	return cells
}
