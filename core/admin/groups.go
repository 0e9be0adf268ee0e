package admin

import (
	"strconv"

	"github.com/google/uuid"
)

// groupPalette is cycled by modulo; group numbers beyond its size reuse colors.
var groupPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
}

// Groups holds the admin's manual matching-group annotations. They live only
// in the view's memory for the session; nothing is persisted.
// Group 0 means "ungrouped".
type Groups struct {
	assignments map[uuid.UUID]int
	max         int
}

func NewGroups() *Groups {
	return &Groups{
		assignments: make(map[uuid.UUID]int),
		max:         1,
	}
}

// Update coerces rawValue to a non-negative integer (invalid or negative
// input floors to 0), stores it for the profile and raises the tracked
// maximum group number if exceeded. Returns the stored group.
func (g *Groups) Update(id uuid.UUID, rawValue string) int {
	n, err := strconv.Atoi(rawValue)
	if err != nil || n < 0 {
		n = 0
	}
	g.assignments[id] = n
	if n > g.max {
		g.max = n
	}
	return n
}

// Reset clears all assignments and resets the maximum to 1.
func (g *Groups) Reset() {
	g.assignments = make(map[uuid.UUID]int)
	g.max = 1
}

func (g *Groups) Get(id uuid.UUID) int {
	return g.assignments[id]
}

// Max is the highest group number any profile has been assigned this session;
// the legend enumerates groups 1..Max.
func (g *Groups) Max() int {
	return g.max
}

func (g *Groups) Assignments() map[uuid.UUID]int {
	cpy := make(map[uuid.UUID]int, len(g.assignments))
	for id, n := range g.assignments {
		cpy[id] = n
	}
	return cpy
}

// GroupColor maps a group number onto the fixed palette. Ungrouped has no color.
func GroupColor(group int) string {
	if group <= 0 {
		return ""
	}
	return groupPalette[(group-1)%len(groupPalette)]
}
