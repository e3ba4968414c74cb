package scanning

import "strings"

// transcribePrompt is shared by the LLM engines. They only supply flat text,
// which the parser splits into lines itself.
const transcribePrompt = `You are reading a photo of a retail receipt or payment slip. Transcribe every line of printed text exactly as it appears, from top to bottom.

Rules:
- Output one receipt line per output line, keeping item names, quantities and prices on the same line when they are printed on the same line
- Keep numbers exactly as printed, including decimal points and thousands separators
- Do not translate, summarize, correct or reorder anything
- Do not add commentary, headings or explanations
- Do not use markdown code blocks`

// cleanTranscript strips markdown fences and surrounding whitespace that
// models sometimes add despite the prompt
func cleanTranscript(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}
