package report

import (
	"html/template"
	"os"
	"strings"

	"github.com/jonathan/edge-workspace-links/internal/filter"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

// bookmarkTemplate renders the Netscape bookmark file format that browsers
// import.
const bookmarkTemplate = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>{{.Title}}</TITLE>
<H1>{{.Title}}</H1>
<DL><p>
{{- range .Folders}}
    <DT><H3 ADD_DATE="{{$.AddDate}}">{{.Name}}</H3>
    <DL><p>
    {{- range .Groups}}
        <DT><H3 ADD_DATE="{{$.AddDate}}">{{.Name}}</H3>
        <DL><p>
        {{- range .Links}}
            <DT><A HREF="{{href .URL}}" ADD_DATE="{{$.AddDate}}">{{.Text}}</A>
        {{- end}}
        </DL><p>
    {{- end}}
    </DL><p>
{{- end}}
</DL><p>
`

var bookmarks = template.Must(template.New("bookmarks").Funcs(template.FuncMap{
	"href": href,
}).Parse(bookmarkTemplate))

type bookmarkData struct {
	Title   string
	AddDate int64
	Folders []bookmarkFolder
}

type bookmarkFolder struct {
	Name   string
	Groups []bookmarkGroup
}

type bookmarkGroup struct {
	Name  string
	Links []bookmarkLink
}

type bookmarkLink struct {
	URL  string
	Text string
}

// Folder names used inside each workspace folder.
const (
	GroupTabs      = "Open tabs"
	GroupFavorites = "Favorites"
)

// href passes browser URLs through unescaped. Script-capable schemes are
// neutralized.
func href(u string) template.URL {
	switch filter.Scheme(u) {
	case "javascript", "vbscript", "data":
		return "#"
	}
	return template.URL(u)
}

func buildBookmarks(r *types.Report) bookmarkData {
	data := bookmarkData{
		Title:   "Edge Workspace Links",
		AddDate: r.GeneratedAt.Unix(),
	}

	// Folders follow the per-file order; rows for files without a summary
	// get a folder at the end.
	order := make([]string, 0, len(r.Files))
	for _, fs := range r.Files {
		order = append(order, fs.WorkspaceFile)
	}
	for _, row := range r.Rows {
		order = append(order, row.WorkspaceFile)
	}

	tabs := make(map[string][]bookmarkLink)
	favs := make(map[string][]bookmarkLink)
	for _, row := range r.Rows {
		text := strings.TrimSpace(row.Title)
		if text == "" {
			text = row.URL
		}
		link := bookmarkLink{URL: row.URL, Text: text}
		if row.Source == types.KindFavorite {
			favs[row.WorkspaceFile] = append(favs[row.WorkspaceFile], link)
		} else {
			tabs[row.WorkspaceFile] = append(tabs[row.WorkspaceFile], link)
		}
	}

	seen := make(map[string]bool)
	for _, name := range order {
		if seen[name] || len(tabs[name])+len(favs[name]) == 0 {
			continue
		}
		seen[name] = true
		f := bookmarkFolder{Name: name}
		if links := tabs[name]; len(links) > 0 {
			f.Groups = append(f.Groups, bookmarkGroup{Name: GroupTabs, Links: links})
		}
		if links := favs[name]; len(links) > 0 {
			f.Groups = append(f.Groups, bookmarkGroup{Name: GroupFavorites, Links: links})
		}
		data.Folders = append(data.Folders, f)
	}
	return data
}

func writeHTML(path string, r *types.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Message: "failed to create file", Cause: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Message: "failed to close file", Cause: cerr}
		}
	}()

	if err := bookmarks.Execute(f, buildBookmarks(r)); err != nil {
		return &WriteError{Path: path, Message: "failed to render bookmarks", Cause: err}
	}
	return nil
}
