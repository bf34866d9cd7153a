package guard

// classify applies the precedence chain to normalized text.
// This is pure domain logic - no I/O, no side effects.
// Rule priority (first hit wins):
//  1. Account access - credentials or logging in for the user
//  2. Bypass or unofficial routes
//  3. Acting on the user's behalf
//  4. Guarantee demands
func classify(t *Taxonomy, normalized string) (ReasonCode, bool) {
	if normalized == "" {
		return ReasonNone, false
	}
	for _, category := range t.order {
		if t.Hit(category, normalized) {
			return category, true
		}
	}
	return ReasonNone, false
}

// buildDecision turns a classification into a Decision with its message.
func buildDecision(c *Catalog, reason ReasonCode, blocked bool, lang Language) Decision {
	if !blocked {
		return Allowed()
	}
	return Decision{
		Blocked: true,
		Reason:  reason,
		Message: c.MessageFor(reason, lang),
	}
}
