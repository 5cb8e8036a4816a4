package department

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllIsFixedSet(t *testing.T) {
	all := All()
	assert.Len(t, all, 7)
	assert.Equal(t, Bakery, all[0])
	assert.Equal(t, Customer, all[6])
	for _, d := range all {
		assert.True(t, Valid(d))
		assert.NotEqual(t, string(d), d.Title(), "у каждого цеха есть русское название")
	}
}

func TestValidRejectsUnknown(t *testing.T) {
	assert.False(t, Valid("office"))
	assert.False(t, Valid(""))
}

func TestSinkDepartments(t *testing.T) {
	assert.True(t, Sink(Refrigerator))
	assert.True(t, Sink(Customer))
	assert.False(t, Sink(Packaging))
	assert.False(t, Sink(Warehouse))
}
