// A small maintenance CLI that talks to a running watcharr server. It lists
// the library or writes the minimal portable export, which is handy for
// backups and for moving a library between machines.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tejasnaik/watcharr/internal/client"
)

func main() {
	addr := flag.String("addr", "http://localhost:3001", "Base URL of the watcharr server")
	export := flag.Bool("export", false, "Write the library export as JSON instead of a listing")
	contentType := flag.String("type", "", "Filter listing by content type (movie or series)")
	status := flag.String("status", "", "Filter listing by watch status")
	flag.Parse()

	c := client.New(*addr)

	if *export {
		items, err := c.Export()
		if err != nil {
			log.Fatalf("Failed to export library: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			log.Fatalf("Failed to encode export: %v", err)
		}
		return
	}

	items, err := c.ListItems(*contentType, *status)
	if err != nil {
		log.Fatalf("Failed to list library: %v", err)
	}
	for _, item := range items {
		rating := "-"
		if item.UserRating != nil {
			rating = fmt.Sprintf("%d/10", *item.UserRating)
		}
		fmt.Printf("%-8d %-7s %-14s %-5s %s\n", item.TMDBID, item.ContentType, item.Status, rating, item.Title)
	}
	fmt.Printf("%d item(s)\n", len(items))
}
