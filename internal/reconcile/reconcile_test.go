package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64
	Name string
}

func rowID(r row) int64 { return r.ID }

func TestDiff(t *testing.T) {
	tests := []struct {
		name       string
		existing   []int64
		submitted  []row
		wantCreate []row
		wantUpdate []row
		wantDelete []int64
	}{
		{
			name:       "nothing stored, everything new",
			submitted:  []row{{Name: "Esi"}, {Name: "Kwame"}},
			wantCreate: []row{{Name: "Esi"}, {Name: "Kwame"}},
		},
		{
			name:       "empty submission deletes everything",
			existing:   []int64{4, 7},
			wantDelete: []int64{4, 7},
		},
		{
			name:       "mixed create update delete",
			existing:   []int64{1, 2, 3},
			submitted:  []row{{ID: 3, Name: "Abena"}, {Name: "Yaw"}, {ID: 1, Name: "Kojo"}},
			wantCreate: []row{{Name: "Yaw"}},
			wantUpdate: []row{{ID: 3, Name: "Abena"}, {ID: 1, Name: "Kojo"}},
			wantDelete: []int64{2},
		},
		{
			name:       "untouched ids are all kept",
			existing:   []int64{10, 11},
			submitted:  []row{{ID: 11, Name: "b"}, {ID: 10, Name: "a"}},
			wantUpdate: []row{{ID: 11, Name: "b"}, {ID: 10, Name: "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Diff(tt.existing, tt.submitted, rowID)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCreate, plan.Create)
			assert.Equal(t, tt.wantUpdate, plan.Update)
			assert.Equal(t, tt.wantDelete, plan.Delete)
		})
	}
}

func TestDiffRejectsForeignID(t *testing.T) {
	_, err := Diff([]int64{1, 2}, []row{{ID: 1}, {ID: 99}}, rowID)
	require.ErrorIs(t, err, ErrUnknownID)
	assert.Contains(t, err.Error(), "99")
}

func TestDiffRejectsRepeatedID(t *testing.T) {
	_, err := Diff([]int64{1, 2}, []row{{ID: 2}, {ID: 2}}, rowID)
	require.ErrorIs(t, err, ErrDuplicateID)
}

// Every stored id ends up in exactly one of Update or Delete, and nothing is created twice.
func TestDiffPartitionsStoredIDs(t *testing.T) {
	existing := []int64{1, 2, 3, 4, 5, 6}
	submitted := []row{{ID: 2}, {}, {ID: 5}, {}, {ID: 6}}

	plan, err := Diff(existing, submitted, rowID)
	require.NoError(t, err)

	seen := map[int64]int{}
	for _, r := range plan.Update {
		seen[r.ID]++
	}
	for _, id := range plan.Delete {
		seen[id]++
	}

	for _, id := range existing {
		assert.Equal(t, 1, seen[id], "id %d", id)
	}
	assert.Len(t, plan.Create, 2)
	assert.False(t, plan.IsEmpty())
}

func TestPlanIsEmpty(t *testing.T) {
	plan, err := Diff[row](nil, nil, rowID)
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
}
