// Package reconcile provides the record-matching and merge engine used to
// reconcile a master billing code sheet against a client sheet.
//
// The engine is a pure function over its inputs: it holds no state between
// calls, never mutates the datasets it is given and never logs. Concurrent
// invocations on different inputs need no locking.
//
// # Architecture
//
// The engine consists of five cooperating parts:
//
// 1. Column resolver: maps logical names (HCPCS, Modifier, Description, Quantity)
//    to the actual column of each dataset through exact, case-insensitive,
//    normalized, substring and fuzzy-category matching.
//
// 2. Code key normalizer: splits a raw procedure code (and optional modifier
//    column) into a root and a modifier, disambiguating the 7 and 8 character
//    encodings.
//
// 3. Comparison key builder: derives the join key under a ModifierCriteria
//    policy. A separate raw key, which ignores the policy, drives duplicate
//    detection inside the client data.
//
// 4. Multiplier adjuster: recognises quantity multipliers embedded in master
//    codes (e.g. "12345x2") and recomputes the merged quantity.
//
// 5. Post-merge formatter: hyphenates 7+ character codes for display.
//
// # Join Semantics
//
// The join is master-driven: the merged set always has one row per (trauma
// filtered) master row. Client values overlay mapped master fields on a match.
// "Unmatched" means client rows without a master counterpart, and duplicates
// are client rows sharing a raw key with another client row.
//
// # Usage Example
//
//	criteria := reconcile.ModifierCriteria{Root25: true}
//	result, err := reconcile.Reconcile(master, client, criteria)
//	if errors.Is(err, reconcile.ErrMissingKeyColumn) {
//	    // tell the user which sheet has no HCPCS column
//	}
//	fmt.Println(result.Stats.MatchRate)
package reconcile
