package domain

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	// RoleUser is the person asking questions.
	RoleUser Role = "user"

	// RoleAssistant is the language model answering them.
	RoleAssistant Role = "assistant"

	// RoleSystem carries instructions and is never part of Memory.
	RoleSystem Role = "system"
)

// IsValid returns true if the role may appear in conversation memory.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Turn is a single entry in the conversation memory.
type Turn struct {
	// Role is who produced the turn.
	Role Role

	// Content is the turn text.
	Content string
}

// Memory is the ordered conversation history passed to the language model.
// It grows by one user turn and one assistant turn per completed round and
// is never pruned.
type Memory []Turn

// Append returns the memory with a completed question/answer round added.
func (m Memory) Append(question, answer string) Memory {
	return append(m,
		Turn{Role: RoleUser, Content: question},
		Turn{Role: RoleAssistant, Content: answer},
	)
}

// Clone returns an independent copy of the memory.
func (m Memory) Clone() Memory {
	if m == nil {
		return nil
	}
	out := make(Memory, len(m))
	copy(out, m)
	return out
}

// Len returns the number of turns.
func (m Memory) Len() int {
	return len(m)
}

// Rounds returns the number of completed question/answer rounds.
func (m Memory) Rounds() int {
	return len(m) / 2
}

// IsEmpty returns true if no turn has been recorded.
func (m Memory) IsEmpty() bool {
	return len(m) == 0
}

// Message is one block of the rendered transcript shown to the user.
type Message struct {
	// Role is who the block belongs to.
	Role Role

	// Content is the displayed text.
	Content string

	// Sources lists the source URLs that grounded an assistant answer.
	Sources []string

	// Err is set when the turn that produced this block failed.
	Err error
}

// IsError returns true if the message records a failed turn.
func (m Message) IsError() bool {
	return m.Err != nil
}

// Answer is the outcome of one conversational answer call.
type Answer struct {
	// Text is the generated answer.
	Text string

	// StandaloneQuestion is the question actually used for retrieval.
	// It equals the user's question on the first turn.
	StandaloneQuestion string

	// Sources are the chunks passed to the model as context.
	Sources []RetrievedChunk
}

// SourceURLs returns the distinct source URLs of the answer context in rank order.
func (a Answer) SourceURLs() []string {
	seen := make(map[string]bool, len(a.Sources))
	urls := make([]string, 0, len(a.Sources))
	for _, s := range a.Sources {
		if s.Chunk.SourceURL == "" || seen[s.Chunk.SourceURL] {
			continue
		}
		seen[s.Chunk.SourceURL] = true
		urls = append(urls, s.Chunk.SourceURL)
	}
	return urls
}
