package generate

// titleRuneLimit bounds inferred conversation titles.
const titleRuneLimit = 20

const ellipsis = "..."

// InferTitle derives a conversation title from the first user input:
// the input unchanged when short enough, otherwise its first 20
// characters with an ellipsis marker. Counted in runes so CJK input is
// not split mid-character.
func InferTitle(userInput string) string {
	runes := []rune(userInput)
	if len(runes) <= titleRuneLimit {
		return userInput
	}
	return string(runes[:titleRuneLimit]) + ellipsis
}
