package broker

import (
	"fmt"
	"strings"

	"github.com/dyike/BrokerGo/internal/models"
)

const noResponderReply = "The firm has received your message and will route it to the appropriate division."

// aggregate merges per-division replies into one outward answer.
// One responder answers verbatim. When the coordinating division is
// among the responders its answer stands alone. Otherwise every reply
// is labelled with its division and concatenated, in target order.
func (b *Broker) aggregate(targets []string, responses map[string]*models.Result) string {
	var answered []string
	for _, id := range targets {
		if r, ok := responses[id]; ok && r != nil && r.Message != "" {
			answered = append(answered, id)
		}
	}

	switch len(answered) {
	case 0:
		return noResponderReply
	case 1:
		return responses[answered[0]].Message
	}

	for _, id := range answered {
		if id == b.coordinator {
			return responses[id].Message
		}
	}

	var sb strings.Builder
	sb.WriteString("Multiple divisions have reviewed your request:\n\n")
	for i, id := range answered {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		label := id
		if d, err := b.registry.Get(id); err == nil {
			label = d.Name
		}
		fmt.Fprintf(&sb, "%s: %s", label, responses[id].Message)
	}
	return sb.String()
}
