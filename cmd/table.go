package main

import (
	"strconv"

	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable lays out rows under headers. Columns listed in right are right-aligned.
func renderTable(headers []string, rows [][]string, right ...int) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
	}
	for _, col := range right {
		if col >= 0 && col < len(configs) {
			configs[col].Align = text.AlignRight
		}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func songRows(songs []models.Song) [][]string {
	rows := make([][]string, len(songs))
	for i, s := range songs {
		fav := ""
		if s.Favorite {
			fav = "★"
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			s.Title,
			s.ArtistName,
			s.AlbumTitle,
			shared.FormatClock(float64(s.Duration)),
			fav,
		}
	}
	return rows
}

var songHeaders = []string{"#", "Title", "Artist", "Album", "Length", "Fav"}

func renderSongs(songs []models.Song) string {
	return renderTable(songHeaders, songRows(songs), 0, 4)
}
