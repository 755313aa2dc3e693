/*
Package formula converts between the structured terms of a Combination and its
canonical text notation.

The notation is a signed sum of mentions, each optionally weighted:

	0.5*@Sugar + 2*@Butter - @Salt

Serialize renders terms deterministically. Parse scans text with a small
hand-written scanner and resolves every "@name" against a registry. Both
functions are total: they never return errors, and Parse reports whether the
text is usable through Result.Valid.
*/
package formula
