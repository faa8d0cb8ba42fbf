package generator

import "fmt"

// systemPrompt instructs the model to return a complete branching story as a
// single JSON object matching the nested node schema parseStory expects.
const systemPrompt = `You are a creative story writer that creates engaging choose-your-own-adventure stories.
Generate a complete branching story as a single JSON object with this exact structure:
{
  "title": "Story Title",
  "rootNode": {
    "content": "The opening situation of the story",
    "isEnding": false,
    "isWinningEnding": false,
    "options": [
      {
        "text": "Option text shown to the player",
        "nextNode": { ... same structure as rootNode ... }
      }
    ]
  }
}

Rules:
- The story must be 3-4 levels deep.
- Each non-ending node has 2-3 options.
- Ending nodes have "isEnding": true and an empty "options" array.
- At least one ending path must have "isWinningEnding": true.
- Respond with the JSON object only, no surrounding text.`

// userPrompt builds the per-request prompt for a story theme
func userPrompt(theme string) string {
	return fmt.Sprintf("Create the story with this theme: %s", theme)
}
