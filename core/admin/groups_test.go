package admin_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mealmatch/mealmatch/core/admin"
)

func Test_Groups_Update(t *testing.T) {
	g := admin.NewGroups()
	id := uuid.New()

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "plain number", raw: "3", want: 3},
		{name: "zero clears", raw: "0", want: 0},
		{name: "negative floors to zero", raw: "-5", want: 0},
		{name: "garbage floors to zero", raw: "abc", want: 0},
		{name: "empty floors to zero", raw: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Update(id, tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, g.Get(id))
		})
	}
}

func Test_Groups_Max(t *testing.T) {
	g := admin.NewGroups()
	assert.Equal(t, 1, g.Max())

	g.Update(uuid.New(), "7")
	assert.Equal(t, 7, g.Max())

	// assigning a lower group never lowers the max
	g.Update(uuid.New(), "2")
	assert.Equal(t, 7, g.Max())
}

func Test_Groups_Reset(t *testing.T) {
	g := admin.NewGroups()
	id := uuid.New()
	g.Update(id, "4")

	g.Reset()
	assert.Zero(t, g.Get(id))
	assert.Equal(t, 1, g.Max())
	assert.Empty(t, g.Assignments())
}

func Test_GroupColor(t *testing.T) {
	assert.Empty(t, admin.GroupColor(0))
	assert.Empty(t, admin.GroupColor(-1))
	assert.NotEmpty(t, admin.GroupColor(1))
	// the palette cycles
	assert.Equal(t, admin.GroupColor(1), admin.GroupColor(11))
}
