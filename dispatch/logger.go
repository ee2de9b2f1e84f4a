package dispatch

import (
	"github.com/rs/zerolog"

	"github.com/pflow-xyz/go-token/token"
)

// LogObserver writes one structured log line per notification. The ledger
// core never logs; hosts that want an audit trail of balance and allowance
// changes register a LogObserver on the dispatcher.
type LogObserver struct {
	log zerolog.Logger
}

// NewLogObserver creates an observer writing through log.
func NewLogObserver(log zerolog.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// ObserveTransfer logs a balance movement. An absent from field marks a
// mint, an absent to field a burn.
func (o *LogObserver) ObserveTransfer(ev token.Transfer) {
	e := o.log.Info().Str("value", ev.Value.String())
	if ev.From != nil {
		e = e.Str("from", string(*ev.From))
	}
	if ev.To != nil {
		e = e.Str("to", string(*ev.To))
	}
	e.Msg("transfer")
}

// ObserveApproval logs an allowance overwrite.
func (o *LogObserver) ObserveApproval(ev token.Approval) {
	o.log.Info().
		Str("owner", string(ev.Owner)).
		Str("spender", string(ev.Spender)).
		Str("value", ev.Value.String()).
		Msg("approval")
}

var _ Observer = (*LogObserver)(nil)
