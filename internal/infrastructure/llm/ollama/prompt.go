package ollama

func buildExtractionPrompt(text string) string {
	const maxSnippet = 6000
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	return `You extract project structure from documents.
Return a strict JSON object with keys:
objectives (array of strings, at most 3),
tasks (array of objects with keys: name, description, priority one of high|medium|low, duration_days integer or 0, phase one of research|design|development|testing|deployment or ""),
phases (array of objects with keys: name, kind one of research|design|development|testing|deployment or ""),
dates (array of strings),
confidence (number from 0 to 1).
No markdown, no extra keys.

Document:
` + snippet
}
