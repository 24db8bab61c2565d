package output

import (
	"fmt"
	"io"

	"github.com/inodb/vibe-pgx/internal/network"
)

// WriteRanking writes a titled, human-readable degree ranking, e.g.
//
//	--- Top High Impact Genes (Degree Centrality) ---
//	CYP2D6: 2 drugs
//
// unit names what the degree counts ("drugs" or "genes").
func WriteRanking(w io.Writer, title, unit string, ranked []network.Ranked) error {
	if _, err := fmt.Fprintf(w, "--- %s ---\n", title); err != nil {
		return err
	}
	if len(ranked) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	for _, r := range ranked {
		if _, err := fmt.Fprintf(w, "%s: %d %s\n", r.Name, r.Degree, unit); err != nil {
			return err
		}
	}
	return nil
}
