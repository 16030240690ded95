package journey_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/pkg/adapters/file"
	"github.com/aretw0/journey/pkg/domain"
)

// ExampleNew_file loads a steps file and keeps the ledger on disk, so a second engine
// over the same directory resumes where the first one stopped.
func ExampleNew_file() {
	dir, err := os.MkdirTemp("", "journey-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	steps := filepath.Join(dir, "steps.json")
	catalog := `[{"id": "intro", "title": "Intro", "next": "outro"}, {"id": "outro", "title": "Outro"}]`
	if err := os.WriteFile(steps, []byte(catalog), 0o644); err != nil {
		log.Fatal(err)
	}

	open := func() *journey.Engine {
		eng, err := journey.New(steps,
			journey.WithStore(file.New(filepath.Join(dir, "ledgers"))),
			journey.WithCursor(file.NewCursor(filepath.Join(dir, "cursor"))),
		)
		if err != nil {
			log.Fatal(err)
		}
		return eng
	}

	ctx := context.Background()
	first := open()
	if _, err := first.SaveText(ctx, "intro", "Hello.", domain.SaveExplicit); err != nil {
		log.Fatal(err)
	}
	if _, err := first.Next(ctx, "intro", nil); err != nil {
		log.Fatal(err)
	}

	view, err := open().Current(ctx)
	if err != nil {
		log.Fatal(err)
	}
	ledger, err := open().Ledger(ctx)
	if err != nil {
		log.Fatal(err)
	}
	entry, _ := ledger.Entry("intro")
	fmt.Println(view.Step.ID, entry.Text)

	// Output:
	// outro Hello.
}
