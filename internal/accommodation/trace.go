package accommodation

// Step is one entry of a diagnostic trace.
type Step struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Trace records what a generation did: the prompt sent, the raw reply and
// which parsing path succeeded. It is returned to the caller instead of being
// printed so operators and tests can audit it directly.
type Trace struct {
	Provider string   `json:"provider"`
	Model    string   `json:"model"`
	Prompt   string   `json:"prompt"`
	RawReply string   `json:"raw_reply,omitempty"`
	Strategy Strategy `json:"strategy,omitempty"`
	Steps    []Step   `json:"steps"`
}

func (t *Trace) step(name string, ok bool, detail string) {
	t.Steps = append(t.Steps, Step{Name: name, OK: ok, Detail: detail})
}
