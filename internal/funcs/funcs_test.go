package funcs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	assert.Equal(t, "1 child", pluralize(1, "child", "children"))
	assert.Equal(t, "0 children", pluralize(0, "child", "children"))
	assert.Equal(t, "3 parents", pluralize(3, "parent", "parents"))
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "1,250,000", formatInt(int64(1250000)))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Ama Serwaa Mensah", title("ama serwaa mensah"))
}

func TestAge(t *testing.T) {
	born := time.Now().AddDate(-30, 0, -1)
	assert.Equal(t, 30, age(born))
}
