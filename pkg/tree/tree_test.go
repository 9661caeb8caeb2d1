package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

func parse(t *testing.T, text string) *jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse(text)
	require.NoError(t, err)
	return v
}

func TestBuild(t *testing.T) {
	nodes := Build(parse(t, `{"name":"x","list":[1,null],"empty":{},"none":[],"ok":true}`))
	require.Len(t, nodes, 5)

	assert.Equal(t, "name", nodes[0].Key)
	assert.Equal(t, `"x"`, nodes[0].Text)
	assert.Equal(t, "string", nodes[0].Type)
	assert.False(t, nodes[0].IsBranch())

	list := nodes[1]
	assert.True(t, list.IsBranch())
	assert.True(t, list.Expanded)
	require.Len(t, list.Children, 2)
	assert.Equal(t, "0", list.Children[0].Key)
	assert.Equal(t, "/list/1", list.Children[1].Path)
	assert.Equal(t, "null", list.Children[1].Text)

	assert.Equal(t, "{}", nodes[2].Text)
	assert.False(t, nodes[2].IsBranch())
	assert.Equal(t, "[]", nodes[3].Text)
	assert.Equal(t, "true", nodes[4].Text)
}

func TestBuild_ScalarRoot(t *testing.T) {
	nodes := Build(parse(t, `"plain"`))
	require.Len(t, nodes, 1)
	assert.Equal(t, "", nodes[0].Key)
	assert.Equal(t, "plain", nodes[0].Text)
	assert.Equal(t, "plain", Render(nodes))
}

func TestToggleAndFind(t *testing.T) {
	nodes := Build(parse(t, `{"a/b":{"c":[1]},"d":1}`))

	n := Find(nodes, "/a~1b/c")
	require.NotNil(t, n)
	assert.Equal(t, "c", n.Key)

	n.Toggle()
	assert.False(t, n.Expanded)
	n.Toggle()
	assert.True(t, n.Expanded)

	leaf := Find(nodes, "/d")
	require.NotNil(t, leaf)
	leaf.Toggle()
	assert.False(t, leaf.Expanded)

	assert.Nil(t, Find(nodes, "/missing"))
}

func TestRender(t *testing.T) {
	nodes := Build(parse(t, `{"name":"x","nested":{"list":[1,2]},"e":[]}`))

	assert.Equal(t, `"name": "x"
▼ "nested": {
  ▼ "list": [
    "0": 1
    "1": 2
  ]
}
"e": []`, Render(nodes))

	Find(nodes, "/nested").Toggle()
	assert.Equal(t, `"name": "x"
▶ "nested": {…}
"e": []`, Render(nodes))
}

func TestExpandTo(t *testing.T) {
	nodes := Build(parse(t, `{"a":{"b":{"c":1}}}`))

	ExpandTo(nodes, 1)
	assert.False(t, nodes[0].Expanded)

	ExpandTo(nodes, 2)
	assert.True(t, nodes[0].Expanded)
	assert.False(t, nodes[0].Children[0].Expanded)

	ExpandTo(nodes, -1)
	assert.True(t, nodes[0].Children[0].Expanded)
}
