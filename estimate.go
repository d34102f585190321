package askimage

// EstimateTokens provides a rough token count estimate for text.
// Uses the approximation: ~4 chars per token. It is a pre-flight heuristic
// for admission control and is not expected to match the provider's
// tokenizer.
func EstimateTokens(text string) int64 {
	return int64(len(text)) / 4
}

// EstimateMessages estimates tokens for a full message list: text parts at
// ~4 chars per token plus a small overhead per message and per request.
// Image parts are not counted.
func EstimateMessages(messages []Message) int64 {
	var total int64
	for _, m := range messages {
		for _, p := range m.Parts {
			if p.Type == PartText {
				total += int64(len(p.Text)) / 4
			}
		}
		// overhead per message (role, formatting)
		total += 4
	}
	// base overhead for the request
	total += 3
	return total
}
