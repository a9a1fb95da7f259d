package entity

import "strings"

const (
	BoardSize = 15
	WinLength = 5
)

type Cell int8

const (
	Empty Cell = iota
	PlayerX
	PlayerO
)

func (that Cell) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return "."
	}
}

// SymbolForSlot - slot 0 plays X, slot 1 plays O.
func SymbolForSlot(slot int) Cell {
	if slot == 0 {
		return PlayerX
	}
	return PlayerO
}

// axes are the four scan directions: horizontal, vertical and both diagonals.
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

type Board struct {
	cells  [BoardSize][BoardSize]Cell
	filled int
}

func NewBoard() *Board {
	return &Board{}
}

func (that *Board) InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// At returns Empty for coordinates outside the board.
func (that *Board) At(row, col int) Cell {
	if !that.InBounds(row, col) {
		return Empty
	}
	return that.cells[row][col]
}

// Place - writes symbol into an empty in-bounds cell and reports whether the write happened.
func (that *Board) Place(row, col int, symbol Cell) bool {
	if symbol == Empty || !that.InBounds(row, col) {
		return false
	}

	if that.cells[row][col] != Empty {
		return false
	}

	that.cells[row][col] = symbol
	that.filled++

	return true
}

// CheckWin - reports whether the stone at (row, col) is part of a run of at least WinLength.
// Only the 2*(WinLength-1)+1 cells centred on the stone are scanned along each axis.
func (that *Board) CheckWin(row, col int) bool {
	symbol := that.At(row, col)
	if symbol == Empty {
		return false
	}

	reach := WinLength - 1

	for _, axis := range axes {
		run := 0

		for step := -reach; step <= reach; step++ {
			r, c := row+step*axis[0], col+step*axis[1]
			if !that.InBounds(r, c) {
				continue
			}

			if that.cells[r][c] != symbol {
				run = 0
				continue
			}

			run++
			if run == WinLength {
				return true
			}
		}
	}

	return false
}

func (that *Board) IsFull() bool {
	return that.filled == BoardSize*BoardSize
}

func (that *Board) Filled() int {
	return that.filled
}

func (that *Board) Reset() {
	that.cells = [BoardSize][BoardSize]Cell{}
	that.filled = 0
}

// Rows renders the board as BoardSize strings of '.', 'X' and 'O'.
func (that *Board) Rows() []string {
	rows := make([]string, BoardSize)

	var sb strings.Builder
	for r := range BoardSize {
		sb.Reset()
		for c := range BoardSize {
			sb.WriteString(that.cells[r][c].String())
		}
		rows[r] = sb.String()
	}

	return rows
}
