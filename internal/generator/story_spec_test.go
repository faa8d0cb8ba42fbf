package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStory(t *testing.T) {
	data := []byte(`{
		"title": "The Clockwork Garden",
		"rootNode": {
			"content": "The gate creaks open.",
			"isEnding": false,
			"isWinningEnding": false,
			"options": [
				{
					"text": "Step inside",
					"nextNode": {
						"content": "The flowers are made of brass.",
						"isEnding": true,
						"isWinningEnding": true,
						"options": []
					}
				}
			]
		}
	}`)

	spec, err := parseStory(data)
	require.NoError(t, err)
	assert.Equal(t, "The Clockwork Garden", spec.Title)
	require.NotNil(t, spec.RootNode)
	require.Len(t, spec.RootNode.Options, 1)
	require.NotNil(t, spec.RootNode.Options[0].NextNode)
	assert.True(t, spec.RootNode.Options[0].NextNode.IsWinningEnding)
}

func TestParseStoryInvalidJSON(t *testing.T) {
	_, err := parseStory([]byte(`not json at all`))
	assert.Error(t, err)
}

func TestParseStoryMissingTitle(t *testing.T) {
	_, err := parseStory([]byte(`{"rootNode":{"content":"x"}}`))
	assert.ErrorIs(t, err, ErrEmptyStory)
}

func TestParseStoryMissingRoot(t *testing.T) {
	_, err := parseStory([]byte(`{"title":"No Way In"}`))
	assert.ErrorIs(t, err, ErrMissingRoot)

	_, err = parseStory([]byte(`{"title":"No Way In","rootNode":{"content":""}}`))
	assert.ErrorIs(t, err, ErrMissingRoot)
}
