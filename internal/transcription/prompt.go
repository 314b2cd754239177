package transcription

import "fmt"

const promptTemplate = `Transcribe the following audio file.
Output the transcript in %s.
Identify different speakers and label them as 'Speaker 1', 'Speaker 2', etc.
Format the transcript as a dialogue, with each speaker's turn on a new line starting with their label.

Example format:
Speaker 1: Hello, how are you?
Speaker 2: I'm doing well, thanks.

If there is only one speaker, just label as 'Speaker 1'.
Do not include timestamps. Output only the transcript text.`

// BuildPrompt returns the instruction sent alongside the audio
func BuildPrompt(language string) string {
	return fmt.Sprintf(promptTemplate, language)
}
