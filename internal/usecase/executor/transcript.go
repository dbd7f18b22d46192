package executor

import (
	"unicode/utf8"

	"onboarding-audit/internal/domain/entity"
)

const truncatedSuffix = "\n... (truncated)"

// transcript is the conversation sent to the model. Each message is priced in
// tokens once, when it is appended, so trimming never re-tokenizes history.
type transcript struct {
	messages []entity.Message
	costs    []int
	total    int
}

func (uc *UseCase) push(t *transcript, m entity.Message) {
	cost := 0
	if uc.budgeted() {
		cost = uc.cost(m)
	}
	t.messages = append(t.messages, m)
	t.costs = append(t.costs, cost)
	t.total += cost
}

func (uc *UseCase) budgeted() bool {
	return uc.counter != nil && uc.cfg.MaxInputTokens > 0
}

// trim blanks out the oldest tool observations until the conversation fits
// the token budget. The system prompt and the task are never touched.
func (uc *UseCase) trim(t *transcript) {
	if !uc.budgeted() || t.total <= uc.cfg.MaxInputTokens {
		return
	}
	omitted := uc.cost(entity.Message{Role: entity.RoleTool, Content: omittedObservation})
	for i := 2; i < len(t.messages) && t.total > uc.cfg.MaxInputTokens; i++ {
		m := &t.messages[i]
		if m.Role != entity.RoleTool || m.Content == omittedObservation {
			continue
		}
		m.Content = omittedObservation
		t.total -= t.costs[i] - omitted
		t.costs[i] = omitted
	}
	if t.total > uc.cfg.MaxInputTokens {
		uc.logger.Warn("Conversation still exceeds token budget", "tokens", t.total, "budget", uc.cfg.MaxInputTokens)
	}
}

func (uc *UseCase) cost(m entity.Message) int {
	n := messageOverhead + uc.counter.Count(m.Content)
	for _, tc := range m.ToolCalls {
		n += uc.counter.Count(tc.Arguments)
	}
	return n
}

// observation is what the model sees of a tool result: at most
// maxObservationLen bytes, cut on a rune boundary.
func observation(result string) string {
	if len(result) <= maxObservationLen {
		return result
	}
	n := maxObservationLen
	for n > 0 && !utf8.RuneStart(result[n]) {
		n--
	}
	return result[:n] + truncatedSuffix
}
