package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"jukebox/internal/metadata"
	"jukebox/internal/pipeline"
)

func renderResults(results []pipeline.Result, base func(string) string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Title", "Artist", "Album", "Length", "Art"})

	for _, res := range results {
		if res.Err != nil {
			tw.AppendRow(table.Row{base(res.Path), "error: " + res.Err.Error(), "", "", "", ""})
			continue
		}
		md := res.Metadata
		art := ""
		if md.AlbumArt != "" {
			art = "yes"
		}
		tw.AppendRow(table.Row{base(res.Path), md.Title, md.Artist, md.Album, formatLength(md.Duration), art})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 50},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func renderMetadata(md metadata.SongMetadata) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendRows([]table.Row{
		{"Title", md.Title},
		{"Artist", md.Artist},
		{"Album", md.Album},
		{"Length", formatLength(md.Duration)},
		{"Album art", md.AlbumArt},
	})
	return tw.Render()
}

func formatLength(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	total := int(seconds)
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
