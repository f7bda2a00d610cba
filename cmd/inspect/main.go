package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"redline/pkg/models"
	"redline/pkg/store"
	"redline/pkg/threads"
)

// inspect dumps the persisted state of a redline database: the stored keys
// and a per-thread summary of the serialized collection.
func main() {
	var p string
	var raw bool
	flag.StringVar(&p, "path", "", "pebble db path to inspect")
	flag.BoolVar(&raw, "raw", false, "print the raw stored JSON instead of a summary")
	flag.Parse()
	if p == "" {
		fmt.Fprintln(os.Stderr, "--path required")
		os.Exit(2)
	}

	pb, err := store.Open(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open failed: %v\n", err)
		os.Exit(1)
	}
	defer pb.Close()

	keys, err := pb.ListKeys("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "list keys failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("keys: %d\n", len(keys))
	for _, k := range keys {
		fmt.Printf("  %s\n", k)
	}

	b, err := pb.Load(threads.DefaultPersistKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load %s failed: %v\n", threads.DefaultPersistKey, err)
		os.Exit(1)
	}
	if b == nil {
		fmt.Println("no thread collection stored")
		return
	}
	if raw {
		os.Stdout.Write(b)
		fmt.Println()
		return
	}

	var all []models.Thread
	if err := json.Unmarshal(b, &all); err != nil {
		fmt.Fprintf(os.Stderr, "stored collection unparseable: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("threads: %d\n", len(all))
	for _, t := range all {
		fmt.Printf("  %s  [%s]  %s/%s rev %s  messages=%d\n",
			t.ID, t.Status, t.ProjectID, t.SheetID, t.Revision, len(t.Messages))
	}
}
