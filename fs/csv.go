package fs

import (
	"encoding/csv"
	"io"
	"path/filepath"
)

// CSVHeader is the column layout of ExportCSV.
var CSVHeader = []string{"name", "scraped_from", "url", "title", "content", "author"}

// ExportCSV flattens the result files at paths into one CSV table on w.
// Each item becomes one row tagged with its file name and team id.
func ExportCSV(w io.Writer, paths []string) (rows int, err error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, err
	}

	for _, path := range paths {
		out, err := ReadOutput(path)
		if err != nil {
			return rows, err
		}
		teamID := out.TeamID
		if teamID == "" {
			teamID = "unknown"
		}
		for _, item := range out.Items {
			if err := cw.Write([]string{
				filepath.Base(path),
				teamID,
				item.SourceURL,
				item.Title,
				item.Content,
				item.Author,
			}); err != nil {
				return rows, err
			}
			rows++
		}
	}

	cw.Flush()
	return rows, cw.Error()
}
