package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"marquee/internal/enrich"
	"marquee/internal/programme"
)

// promptResolver asks the user to arbitrate a catalog mismatch on the
// terminal. It renders both picks side by side and loops until a valid
// choice comes in.
type promptResolver struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptResolver(in io.Reader, out io.Writer) *promptResolver {
	return &promptResolver{in: bufio.NewReader(in), out: out}
}

func (p *promptResolver) Resolve(ctx context.Context, record programme.ScreeningRecord, scraped, structured enrich.CatalogView, verification enrich.Verification) (enrich.Decision, error) {
	fmt.Fprintf(p.out, "\nCatalog mismatch for %q (title %.2f, director %.2f)\n",
		record.Title, verification.TitleScore, verification.DirectorScore)

	rows := [][]string{
		{"Title", scraped.Title, structured.Title},
		{"Original title", "", structured.OriginalTitle},
		{"Directors", strings.Join(scraped.Directors, ", "), strings.Join(structured.Directors, ", ")},
		{"Release date", verification.ScrapedDate, verification.StructuredDate},
	}
	fmt.Fprintln(p.out, renderTable([]string{"", "AlloCiné", "TMDB"}, rows, nil))

	for {
		select {
		case <-ctx.Done():
			return enrich.DecisionDefault, ctx.Err()
		default:
		}

		fmt.Fprint(p.out, "Choose source (a=allocine, t=tmdb, m=merge, s=skip): ")
		line, err := p.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// No terminal input left; settle on the merge default.
				return enrich.DecisionMerge, nil
			}
			return enrich.DecisionDefault, fmt.Errorf("read choice: %w", err)
		}
		if decision, ok := enrich.ParseDecision(strings.ToLower(strings.TrimSpace(line))); ok {
			return decision, nil
		}
		fmt.Fprintln(p.out, "Invalid choice.")
	}
}
