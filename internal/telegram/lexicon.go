package telegram

// User-facing message texts. Kept in one place so the bot's voice stays
// consistent across handlers.
const (
	textStart = "Hi! I am a voice assistant bot.\n\n" +
		"Send me a voice message and I will transcribe it, think about it, " +
		"and reply with a voice message of my own. Plain text works too — " +
		"you will still get a spoken answer.\n\n" +
		"Commands:\n/start, /help — show this message"

	textProcessingVoice = "Processing your voice message..."
	textProcessingText  = "Processing your message..."

	// textHeard echoes the transcription back so the user can verify what
	// the bot understood. Formatted with the transcribed text.
	textHeard = "I heard: %s"

	textErrRateLimit = "The assistant is over its request limit right now. Please try again in a minute."
	textErrTimeout   = "The assistant took too long to answer. Please try again."
	textErrGeneric   = "Something went wrong while handling your message. Please try again."
)
