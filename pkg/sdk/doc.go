// Package layersearch embeds the layer search engine in a Go program
// without running the HTTP server.
//
// A Client opens the layer database, loads or discovers the catalog and
// searches every layer in scope concurrently:
//
//	client, _ := layersearch.Open(ctx, layersearch.WithDatabase("layers.db"))
//	defer client.Close()
//
//	res, _ := client.Search(ctx, "region:Downtown",
//	    layersearch.Where("name", layersearch.OpContains, "oak"),
//	    layersearch.Or("area", layersearch.OpGreater, "10"),
//	)
//	for _, rec := range res.Records {
//	    fmt.Println(rec.LayerTitle, rec.Attributes["name"])
//	}
//
// Layers that fail are reported in Result.Failures; the remaining layers
// still contribute records.
package layersearch
