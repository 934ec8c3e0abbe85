package qc

import (
	"fmt"
	"strings"

	"hansel/internal/config"
	"hansel/internal/matcher"
	"hansel/internal/subtype"
)

// Finalized is a resolved record with its QC verdict; the terminal phase.
type Finalized struct {
	subtype.Resolved
	QCStatus  Status
	QCMessage string
}

// Run applies the default Rules.
func Run(r subtype.Resolved, ev []matcher.Evidence, p config.Params) Finalized {
	return Fold(r, ev, p, Rules)
}

// Fold evaluates every rule and keeps the highest severity; on ties the
// earlier rule's status wins. Reported fragments are joined as
// "<STATUS>: <message>" separated by " | ".
func Fold(r subtype.Resolved, ev []matcher.Evidence, p config.Params, rules []Rule) Finalized {
	status := PASS
	var msgs []string
	for _, rule := range rules {
		st, msg := rule.Check(r, ev, p)
		if st.Severity() == 0 {
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", st, msg))
		if st.Severity() > status.Severity() {
			status = st
		}
	}
	return Finalized{Resolved: r, QCStatus: status, QCMessage: strings.Join(msgs, " | ")}
}
