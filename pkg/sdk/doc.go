// Package paperlens embeds the paperlens document pipeline in a Go program.
//
// Papers are normalized, summarized (AI first, local extractors as fallback),
// embedded into hashed vectors and stored in Valkey or Redis.
//
//	client, _ := paperlens.New(ctx, paperlens.WithValkey("localhost:6379", ""))
//	defer client.Close()
//
//	p, created, _ := client.Papers("notes").Ingest(ctx, paperlens.NewPaper{
//	    Title: "Attention",
//	    Text:  body,
//	})
//	similar, _ := client.Papers("notes").Similar(ctx, p.ID, paperlens.SimilarOptions{Limit: 5})
//
// Without WithCompleter every summary comes from the local extractors.
package paperlens
