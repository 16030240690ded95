/*
Package journey is a guided journaling engine: it walks a person through an ordered
catalog of questions, keeps one answer per step in a persisted ledger and compiles the
answers into a single text artifact at the end.

# Concept

A journey is a catalog of steps. Each step has a question and may carry a prompt hint,
a video and a transcript. The engine keeps a navigation cursor (the id of the current
step, or "complete" once the last step is passed) and a ledger mapping step ids to
entries. An entry is either typed text or a freehand drawing ("ink").

Every save is a read-modify-write of the whole ledger under a per-slot lock, so an
answer saved for one step never erases answers written for other steps. Unknown cursor
values fall back to the first step and corrupt ledgers read as empty: the flow never
fails on stale local data.

The engine is the core; terminals, HTTP clients and MCP agents are adapters around it.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/journey"
	)

	func main() {
		// steps.json, steps.yaml, a directory of Markdown steps or a URL
		eng, err := journey.New("./steps.json")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		for {
			view, err := eng.Current(ctx)
			if err != nil {
				log.Fatal(err)
			}
			if view.Complete {
				break
			}

			answer := "what came up"
			if _, err := eng.Next(ctx, view.Step.ID, &answer); err != nil {
				log.Fatal(err)
			}
		}

		text, err := eng.Compile(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(text)
	}
*/
package journey
