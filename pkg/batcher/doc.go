/*
Package batcher drives the paginated soft-skills questionnaire.

A Batcher fetches one page of questions at a time, collects an answer for each, and
submits the whole page to the scorer before fetching the next one. After the last page
is acknowledged the soft-skills stage is marked complete. Network failures never advance
the position: they return a *TransientError and the failed step is resumed with Retry.

	b, _ := batcher.New(sessionID, bank, scorer, batcher.WithStageMarker(mark))
	if err := b.Load(ctx); err != nil { ... }
	for !b.Done() {
		q, _ := b.Current()
		err := b.Record(ctx, ask(q))
		...
	}
*/
package batcher
