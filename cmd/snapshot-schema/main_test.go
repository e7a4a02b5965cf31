package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchemaCoversSnapshot(t *testing.T) {
	schema := buildSchema()
	require.NotNil(t, schema)
	require.NotNil(t, schema.Properties)
	for _, key := range []string{"version", "seed", "tick", "rng", "samplerCursor", "terrain", "floods", "freeze", "weather"} {
		_, ok := schema.Properties.Get(key)
		assert.True(t, ok, "missing property %q", key)
	}
	floods, ok := schema.Properties.Get("floods")
	require.True(t, ok)
	_, ok = floods.Properties.Get("scheduler")
	assert.True(t, ok, "nested flood state should be inlined")
}

func TestWriteSchema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "snapshot.schema.json")
	require.NoError(t, writeSchema(out, buildSchema()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Waterworld snapshot", doc["title"])
	_, err = os.Stat(out + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
