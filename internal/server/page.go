package server

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chris/gdpdash/internal/render"
	"github.com/chris/gdpdash/internal/series"
	"github.com/chris/gdpdash/internal/session"
)

var pageFuncs = template.FuncMap{
	"value": render.FormatValue,
}

type pageOption struct {
	Name     string
	Selected bool
}

type pageData struct {
	Title       string
	Description string
	Options     []pageOption
	From        int
	To          int
	MinYear     int
	MaxYear     int
	Marks       []render.Mark
	ChartURL    string
	CSVURL      string
	Stats       []series.CountryStats
	Error       string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	data := pageData{
		Title:       s.cfg.Title,
		Description: s.cfg.Description,
		MinYear:     s.table.MinYear(),
		MaxYear:     s.table.MaxYear(),
	}

	sel, err := s.selectionFromQuery(r.URL.Query())
	if err == nil {
		var v session.View
		v, err = s.view(sel)
		if err == nil {
			data.From, data.To = v.Selection.Range.Min, v.Selection.Range.Max
			data.Marks = v.Controls.Marks
			data.Stats = series.Stats(v.Series)
			sel = v.Selection
		}
	}
	if err != nil {
		status = http.StatusBadRequest
		data.Error = err.Error()
		data.From, data.To = sel.Range.Min, sel.Range.Max
	}

	selected := sel.CountrySet()
	for _, c := range s.table.Countries() {
		_, ok := selected[c]
		data.Options = append(data.Options, pageOption{
			Name:     c,
			Selected: ok,
		})
	}
	query := selectionQuery(sel.Countries, data.From, data.To)
	data.ChartURL = "/chart.png?" + query
	data.CSVURL = "/api/series?format=csv&" + query

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// selectionQuery encodes a selection the way selectionFromQuery reads it
func selectionQuery(countries []string, from, to int) string {
	q := url.Values{}
	if len(countries) == 0 {
		q.Set("country", "")
	}
	for _, c := range countries {
		q.Add("country", c)
	}
	q.Set("from", strconv.Itoa(from))
	q.Set("to", strconv.Itoa(to))
	return q.Encode()
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 1240px; color: #222; }
h1 { margin-bottom: 0.25rem; }
p.description { color: #555; max-width: 60rem; }
form { display: flex; gap: 2rem; align-items: flex-start; margin: 1.5rem 0; }
select { min-width: 16rem; min-height: 12rem; }
.error { color: #b00020; font-weight: bold; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { padding: 0.25rem 0.75rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
datalist option { font-size: 0.8em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="description">{{.Description}}</p>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="get" action="/">
  <input type="hidden" name="country" value="">
  <label>Countries<br>
    <select name="country" multiple>
    {{range .Options}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
    {{end}}</select>
  </label>
  <div>
    <label>From <input type="range" name="from" min="{{.MinYear}}" max="{{.MaxYear}}" step="1" value="{{.From}}" list="marks" oninput="this.nextElementSibling.value=this.value"><output>{{.From}}</output></label><br>
    <label>To <input type="range" name="to" min="{{.MinYear}}" max="{{.MaxYear}}" step="1" value="{{.To}}" list="marks" oninput="this.nextElementSibling.value=this.value"><output>{{.To}}</output></label>
    <datalist id="marks">{{range .Marks}}<option value="{{.Year}}" label="{{.Label}}"></option>{{end}}</datalist>
    <p><button type="submit">Update</button> <a href="/">Reset</a> <a href="{{.CSVURL}}">Download CSV</a></p>
  </div>
</form>
{{if not .Error}}<img src="{{.ChartURL}}" alt="{{.Title}}" width="1200">{{end}}
{{if .Stats}}
<table>
  <tr><th>Country</th><th>Points</th><th>First</th><th>Last</th><th>Min</th><th>Max</th></tr>
  {{range .Stats}}<tr><td>{{.Country}}</td><td>{{.Points}}</td><td>{{value .First.Value}} ({{.First.Year}})</td><td>{{value .Last.Value}} ({{.Last.Year}})</td><td>{{value .Min.Value}}</td><td>{{value .Max.Value}}</td></tr>
  {{end}}
</table>
{{end}}
</body>
</html>
`
