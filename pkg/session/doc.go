/*
Package session implements the edit-session store for direct formula entry.

A combination is edited either through the builder (structured operations on
its terms) or through direct entry (free text in canonical notation). Manager
holds one EditSession per combination while it is in direct-entry mode and
drives it from named UI events:

	TextChanged -> re-run mention detection, refresh suggestions
	CaretMoved  -> re-run mention detection
	KeyPressed  -> navigate / commit / cancel the open suggestion list
	FocusLost   -> exit direct entry after a short grace period

Text is only parsed when direct entry is exited. A valid parse replaces the
combination's terms; an invalid one is discarded and the previous terms stay.
*/
package session
