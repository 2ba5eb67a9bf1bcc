// Package resume stores the candidate's résumé text and locates cited
// snippets inside it.
//
// The résumé is a single string persisted under a fixed key in a
// kv.Store. It is loaded once at session start to build the system
// instruction and re-read by the terminal view to highlight the
// snippets a finalized turn cited:
//
//	store := resume.NewStore(db)
//	text, _ := store.Load(ctx)
//	ranges := resume.MatchSnippets(text, t.Citations)
//
// ImportFile replaces the stored text with the contents of a local
// plain-text or markdown file.
package resume
