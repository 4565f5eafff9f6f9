package umbraco

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesAccessors(t *testing.T) {
	var item ContentItem
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "1",
		"name": "Ada",
		"contentType": "speaker",
		"route": {"path": "/speakers/ada/"},
		"properties": {
			"role": "Keynote",
			"empty": "",
			"order": 3,
			"featured": true,
			"image": [{"url": "/media/a.jpg"}],
			"techStack": ["Go", 42, "Umbraco"]
		}
	}`), &item))

	p := item.Properties
	assert.Equal(t, "Keynote", p.String("role"))
	assert.Equal(t, "3", p.String("order"))
	assert.Equal(t, "true", p.String("featured"))
	assert.Equal(t, "", p.String("image"))
	assert.Equal(t, "", p.String("missing"))

	assert.Nil(t, p.StringPtr("empty"))
	assert.Nil(t, p.StringPtr("missing"))
	require.NotNil(t, p.StringPtr("role"))
	assert.Equal(t, "Keynote", *p.StringPtr("role"))

	assert.Equal(t, []string{"Go", "Umbraco"}, p.Strings("techStack"))
	assert.Nil(t, p.Strings("role"))

	assert.True(t, p.Truthy("image"))
	assert.False(t, p.Truthy("empty"))
	assert.False(t, p.Truthy("missing"))

	assert.Equal(t, "ada", item.Slug())
}

func TestNilPropertiesAreSafe(t *testing.T) {
	var p Properties
	assert.Nil(t, p.Value("x"))
	assert.Equal(t, "", p.String("x"))
	assert.Nil(t, p.Strings("x"))
	assert.False(t, p.Truthy("x"))
}
