package cf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testCf struct {
	Name    string `cf:"name"`
	Count   int    `cf:"count"`
	Age     int64  `cf:"age"`
	Scale   float64
	Enabled bool `cf:"enabled"`
}

func TestLoad(t *testing.T) {
	data := make(map[string]interface{})
	data["name"] = "oof"
	data["count"] = 33
	data["age"] = 12
	data["Scale"] = 1.5
	data["enabled"] = true

	out := &testCf{}
	err := Load(data, out)
	assert.NoError(t, err)
	assert.Equal(t, "oof", out.Name)
	assert.Equal(t, 33, out.Count)
	assert.Equal(t, int64(12), out.Age)
	assert.Equal(t, 1.5, out.Scale)
	assert.True(t, out.Enabled)
}

func TestLoadTypeMismatch(t *testing.T) {
	data := make(map[string]interface{})
	data["count"] = "not a number"
	err := Load(data, &testCf{})
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	out := Dump("test", &testCf{Name: "oof"})
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "oof")
}
