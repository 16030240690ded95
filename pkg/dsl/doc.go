/*
Package dsl provides a fluent Go builder for journey catalogs.

It is an alternative to steps.json or a Markdown directory when the catalog is
generated by code or written inline in tests. Steps are chained in the order they are
added unless Go or Terminal says otherwise.

Example usage:

	b := dsl.New()

	b.Add("notice").
		Title("Notice").
		Question("What did you notice today?")

	b.Add("decide").
		Title("Decide").
		Question("What will you do about it?").
		Video("https://youtu.be/abc123")

	loader, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	eng, err := journey.New("", journey.WithLoader(loader))
*/
package dsl
