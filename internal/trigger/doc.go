// Package trigger decides when an edit command should fire a completion
// request.
//
// The decision has two halves. IsTriggerCommand filters by command name:
// an exact allow-list, configurable "electric-" style prefixes, and an
// optional pluggable predicate so hosts can swap the heuristic per
// language or dialect. ShouldRequest filters by position: the text
// immediately preceding the completion context must end with a
// member-access operator (by default `.`, `->`, and `::`), anchored with
// no intervening characters.
//
// A predicate can be supplied as a plain Go function or as a Lua script:
//
//	pred, err := trigger.NewLuaPredicate(src)
//	if err != nil {
//	    return err
//	}
//	defer pred.Close()
//
//	policy := trigger.NewPolicy(
//	    trigger.WithCommands("self-insert"),
//	    trigger.WithPredicate(pred.Func()),
//	)
//
// The Lua state is sandboxed and serialized internally, so one predicate
// may back policies on several sessions.
package trigger
